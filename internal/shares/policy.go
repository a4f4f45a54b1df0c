package shares

import (
	"fmt"
	"regexp"
	"time"

	"github.com/JaimeStill/courier/internal/templates"
	"github.com/JaimeStill/courier/pkg/timespan"
)

var mailPattern = regexp.MustCompile(
	`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@` +
		`((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`,
)

// ValidMail reports whether address can receive a mail one-time passcode.
func ValidMail(address string) bool {
	return mailPattern.MatchString(address)
}

// Policy turns a role's share datum into a participant entry.
type Policy struct {
	now func() time.Time
}

// NewPolicy creates a Policy that evaluates time spans against now.
// A nil now uses time.Now.
func NewPolicy(now func() time.Time) *Policy {
	if now == nil {
		now = time.Now
	}
	return &Policy{now: now}
}

// Build creates the participant entry for address at the given routing order.
//
// Incomplete policies degrade rather than fail: reminders without a start
// span start immediately, and mail protection is dropped for addresses that
// are not email addresses. The only error is a time span the evaluator
// cannot interpret.
func (p *Policy) Build(shareType, address string, order int, datum templates.ShareDatum) (Target, error) {
	target := Target{
		SharePurpose: shareType,
		ShareTo:      address,
		Rights:       []string{RightPrint},
		Order:        order,
	}

	now := p.now()

	if datum.ExpirationTime != nil {
		until, err := timespan.Evaluate(datum.ExpirationTime, now)
		if err != nil {
			return Target{}, fmt.Errorf("expiration for order %d: %w", order, err)
		}
		target.ValidUntil = &until
	}

	if datum.RemindersEnabled {
		start, err := timespan.Evaluate(datum.RemindersStartDays, now)
		if err != nil {
			return Target{}, fmt.Errorf("reminder start for order %d: %w", order, err)
		}
		reminder := &Reminder{Start: start}
		if datum.RemindersStartDays.Relative() && datum.RemindersIntervalDays != nil {
			interval := *datum.RemindersIntervalDays
			reminder.IntervalDays = &interval
		}
		target.AutomaticReminder = reminder
	}

	if datum.Message != nil {
		message := *datum.Message
		target.Message = &message
	}

	if datum.MailProtection && ValidMail(address) {
		target.Mail = address
	}

	return target, nil
}
