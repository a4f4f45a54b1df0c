// Package mapper maps a signing template onto one recipient row, producing
// the annotations, signature placements and participants of that
// recipient's share request.
package mapper

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/courier/internal/config"
	"github.com/JaimeStill/courier/internal/recipients"
	"github.com/JaimeStill/courier/internal/shares"
	"github.com/JaimeStill/courier/internal/templates"
)

// OperatorPosition is the routing order of the operator running the batch.
// Operator placements carry pre-uploaded blobs and never produce a participant.
const OperatorPosition = 1

// Result holds the per-recipient parts of a share request. Field lists keep
// template declaration order.
type Result struct {
	Recipient       string
	Annotations     []templates.Field
	Signatures      []templates.Field
	SignatureFields []templates.Field
	Targets         []shares.Target
}

// Mapper classifies template fields for individual recipients.
type Mapper struct {
	cfg    config.TemplateConfig
	policy *shares.Policy
	logger *slog.Logger
}

// New creates a Mapper using cfg for the operator blobs, the dynamic
// recipient position and the missing-value placeholder.
func New(cfg config.TemplateConfig, policy *shares.Policy, logger *slog.Logger) *Mapper {
	return &Mapper{
		cfg:    cfg,
		policy: policy,
		logger: logger.With("system", "mapper"),
	}
}

// Map resolves tpl for row. tpl is not modified; every field placed in the
// result is a clone.
//
// Participants are produced in the order: the row's recipient, non-signing
// roles, then fixed signers in field declaration order. A routing order is
// used at most once; two different addresses at one order is an
// ErrOrderConflict.
func (m *Mapper) Map(tpl *templates.Template, row recipients.Row) (*Result, error) {
	recipient := row.Recipient()
	if recipient == "" {
		return nil, ErrMissingRecipient
	}

	dynamic := m.cfg.DynamicUserPosition

	role, ok := tpl.EntityAt(dynamic)
	if !ok {
		return nil, fmt.Errorf("%w: no role at dynamic position %d", ErrRoleNotFound, dynamic)
	}

	res := &Result{Recipient: recipient}
	seen := map[int]string{}

	add := func(shareType, address string, order int, datum templates.ShareDatum) error {
		if prev, ok := seen[order]; ok {
			if prev == address {
				return nil
			}
			return fmt.Errorf("%w: order %d routes to both %s and %s", ErrOrderConflict, order, prev, address)
		}
		target, err := m.policy.Build(shareType, address, order, datum)
		if err != nil {
			return err
		}
		seen[order] = address
		res.Targets = append(res.Targets, target)
		return nil
	}

	if err := add(templates.ShareTypeSign, recipient, dynamic, role.Datum()); err != nil {
		return nil, err
	}

	for i := range tpl.SignEntities {
		entity := &tpl.SignEntities[i]
		if entity.Signing() || entity.Order == dynamic {
			continue
		}
		if entity.Order == OperatorPosition {
			m.logger.Warn(
				"skipping non-signing role at operator position",
				"share_type", entity.ShareType,
				"role", entity.UserRoleID,
			)
			continue
		}
		address := entity.Address()
		if address == "" {
			return nil, fmt.Errorf("%w: %s role %s at order %d", ErrMissingAddress, entity.ShareType, entity.UserRoleID, entity.Order)
		}
		if err := add(entity.ShareType, address, entity.Order, entity.Datum()); err != nil {
			return nil, err
		}
	}

	for i := range tpl.SignFields {
		field := tpl.SignFields[i].Clone()

		entity, ok := tpl.Entity(field.UserRoleID)
		if !ok {
			return nil, fmt.Errorf("%w: field %d references role %q", ErrRoleNotFound, i, field.UserRoleID)
		}

		switch {
		case field.Type == templates.FieldAnnotation:
			text := m.annotate(field.Config.CustomID, row, recipient)
			field.Text = &text
			res.Annotations = append(res.Annotations, field)

		case !field.Type.SignatureClass():
			m.logger.Warn("skipping field of unknown type", "type", field.Type, "index", i)

		case field.Order == OperatorPosition:
			blob := m.cfg.Blobs.For(field.Type)
			field.Blob = &blob
			res.Signatures = append(res.Signatures, field)

		case field.Order == dynamic:
			field.User = []string{recipient}
			res.SignatureFields = append(res.SignatureFields, field)

		default:
			address := field.Address()
			if address == "" {
				return nil, fmt.Errorf("%w: %s field %d at order %d", ErrMissingAddress, field.Type, i, field.Order)
			}
			if err := add(entity.ShareType, address, field.Order, entity.Datum()); err != nil {
				return nil, err
			}
			res.SignatureFields = append(res.SignatureFields, field)
		}
	}

	return res, nil
}

func (m *Mapper) annotate(customID string, row recipients.Row, recipient string) string {
	if v, ok := row.Get(customID); ok {
		return " " + v.String()
	}

	m.logger.Warn(
		"missing value for annotation",
		"column", customID,
		"recipient", recipient,
	)
	return m.cfg.MissingValue
}
