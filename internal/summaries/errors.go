package summaries

import "errors"

// ErrInvalidRequest marks a malformed summarization or comparison request,
// e.g. fewer than two ids to compare or a document with nothing to embed.
var ErrInvalidRequest = errors.New("invalid request")
