package recipients

import "errors"

var (
	// ErrEmptyFeed indicates a recipient file without a header row.
	ErrEmptyFeed = errors.New("recipient feed is empty")
	// ErrMissingRecipientColumn indicates the header lacks the recipient column.
	ErrMissingRecipientColumn = errors.New("recipient feed has no \"" + RecipientColumn + "\" column")
)
