package reply

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/vidshare/internal/db"
	"github.com/kailas-cloud/vidshare/internal/domain"
	"github.com/kailas-cloud/vidshare/internal/domain/filter"
	"github.com/kailas-cloud/vidshare/internal/repository/docstore"
)

const collection = "replies"

// chunkSize bounds the number of ids in a single tag query.
const chunkSize = 100

// Repo stores replies to comments.
type Repo struct {
	c *docstore.Collection[domain.Reply]
}

// New creates a reply repository.
func New(s docstore.Store, keyPrefix string) *Repo {
	return &Repo{c: docstore.New(s, keyPrefix, collection,
		func(r *domain.Reply) string { return r.ID },
		func(b *db.IndexBuilder) *db.IndexBuilder {
			return b.
				Tag("commentId").
				Tag("userId").
				Numeric("createdAt").Sortable()
		})}
}

// EnsureIndex creates the replies index.
func (r *Repo) EnsureIndex(ctx context.Context) error { return r.c.EnsureIndex(ctx) }

// IndexName returns the name of the FT index backing the repository.
func (r *Repo) IndexName() string { return r.c.Index().Name }

// Save creates or replaces a reply.
func (r *Repo) Save(ctx context.Context, rp *domain.Reply) error { return r.c.Put(ctx, rp) }

// Get returns a reply by id.
func (r *Repo) Get(ctx context.Context, id string) (domain.Reply, error) {
	return r.c.Get(ctx, id)
}

// Delete removes a reply.
func (r *Repo) Delete(ctx context.Context, id string) error { return r.c.Delete(ctx, id) }

// ListByComments returns every reply to the given comments, oldest first.
func (r *Repo) ListByComments(ctx context.Context, commentIDs []string) ([]domain.Reply, error) {
	var out []domain.Reply
	for _, chunk := range chunks(commentIDs) {
		replies, err := r.c.All(ctx, filter.New().In("commentId", chunk...), "createdAt")
		if err != nil {
			return nil, fmt.Errorf("list replies: %w", err)
		}
		out = append(out, replies...)
	}
	return out, nil
}

// DeleteByComments removes every reply to the given comments.
func (r *Repo) DeleteByComments(ctx context.Context, commentIDs []string) error {
	replies, err := r.ListByComments(ctx, commentIDs)
	if err != nil {
		return err
	}
	ids := make([]string, len(replies))
	for i := range replies {
		ids[i] = replies[i].ID
	}
	return r.c.DeleteMany(ctx, ids)
}

// All returns every reply, oldest first.
func (r *Repo) All(ctx context.Context) ([]domain.Reply, error) {
	return r.c.All(ctx, filter.New(), "createdAt")
}

// Clear removes every reply.
func (r *Repo) Clear(ctx context.Context) (int, error) { return r.c.Clear(ctx) }

func chunks(ids []string) [][]string {
	var out [][]string
	for len(ids) > 0 {
		n := min(chunkSize, len(ids))
		out = append(out, ids[:n])
		ids = ids[n:]
	}
	return out
}
