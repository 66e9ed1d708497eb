package catalog

import (
	"context"
	"errors"
)

// ErrFetchFailed wraps any error returned by the backing store during a
// page fetch. Callers keep prior state and may retry.
var ErrFetchFailed = errors.New("catalog fetch failed")

// Page is one slice of catalog results. Cursor is opaque to callers and
// resumes pagination when passed back to FetchPage.
type Page struct {
	Items   []Product
	Cursor  string
	HasMore bool
}

// Catalog is the remote product store the feed pulls from. Implementations
// filter by any-of tag match when tags are non-empty.
type Catalog interface {
	FetchPage(ctx context.Context, tags []string, pageSize int, cursor string) (Page, error)
}
