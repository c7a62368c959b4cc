package reconcile

import "context"

// PageFunc fetches one page of a remote collection. The first call receives
// an empty page token. A non-empty next token means more pages follow.
type PageFunc[T any] func(ctx context.Context, pageToken string) (items []T, nextPageToken string, err error)

// ListAll flattens every page of a remote collection into one slice.
//
// Any page failure returns a ListError and discards the pages accumulated
// so far; a partial listing must never feed the differ, since missing
// entities would be misclassified as inserts.
func ListAll[T any](ctx context.Context, collection string, fetch PageFunc[T]) ([]T, error) {
	var all []T
	token := ""

	for {
		items, next, err := fetch(ctx, token)
		if err != nil {
			return nil, &ListError{Collection: collection, Err: err}
		}
		all = append(all, items...)

		if next == "" {
			return all, nil
		}
		token = next
	}
}
