package docstore

import (
	"context"
	"errors"
)

// Indexed is implemented by repositories backed by an FT index.
type Indexed interface {
	EnsureIndex(ctx context.Context) error
	IndexName() string
}

// EnsureIndexes creates every missing index and reports all failures together.
func EnsureIndexes(ctx context.Context, repos ...Indexed) error {
	var errs []error
	for _, r := range repos {
		if err := r.EnsureIndex(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// IndexNames lists the index names of repos in order.
func IndexNames(repos ...Indexed) []string {
	names := make([]string, len(repos))
	for i, r := range repos {
		names[i] = r.IndexName()
	}
	return names
}
