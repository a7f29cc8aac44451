package search

import "sort"

// Kind tells which collection a hit came from.
type Kind string

const (
	// KindVideo is a public video hit.
	KindVideo Kind = "video"
	// KindUser is a channel hit.
	KindUser Kind = "user"
)

// Hit is one ranked result. Exactly one of Video and Channel is the subject;
// video hits also carry their owner in Channel when it still exists.
type Hit struct {
	Kind    Kind
	Score   float64
	Video   *VideoHit
	Channel *ChannelHit
}

// VideoHit is a matched video with its owner's public fields.
type VideoHit struct {
	ID           string
	Title        string
	Description  string
	ThumbnailURL string
	Views        int64
	CreatedAt    int64
	Owner        *ChannelHit
}

// ChannelHit is a user's public projection in search results.
type ChannelHit struct {
	ID          string
	ChannelName string
	PhotoURL    string
	CreatedAt   int64
}

func (h Hit) createdAt() int64 {
	if h.Kind == KindVideo {
		return h.Video.CreatedAt
	}
	return h.Channel.CreatedAt
}

// merge ranks hits by score desc; ties put videos first, then newer items.
func merge(videos, users []Hit) []Hit {
	out := make([]Hit, 0, len(videos)+len(users))
	out = append(out, videos...)
	out = append(out, users...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Kind != b.Kind {
			return a.Kind == KindVideo
		}
		return a.createdAt() > b.createdAt()
	})
	return out
}

// window slices ranked hits to [offset, offset+limit).
func window(hits []Hit, offset, limit int) []Hit {
	if offset >= len(hits) {
		return nil
	}
	end := min(offset+limit, len(hits))
	return hits[offset:end]
}
