package search

import (
	"context"

	"github.com/kailas-cloud/vidshare/internal/domain"
	"github.com/kailas-cloud/vidshare/internal/usecase/history"
)

// UserSearcher ranks users by channel name.
type UserSearcher interface {
	Search(ctx context.Context, text string, offset, limit int) ([]domain.Scored[domain.User], int, error)
	GetMany(ctx context.Context, ids []string) (map[string]domain.User, error)
}

// VideoSearcher ranks public videos by title and description.
type VideoSearcher interface {
	SearchPublic(ctx context.Context, text string, offset, limit int) ([]domain.Scored[domain.Video], int, error)
}

// HistoryRecorder stores search history for authenticated callers.
type HistoryRecorder interface {
	Record(ctx context.Context, p domain.Principal, in history.Input) (domain.History, error)
}
