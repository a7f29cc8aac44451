package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/vidshare/internal/db"
	"github.com/kailas-cloud/vidshare/internal/domain/filter"
)

// Search runs FT.SEARCH for q and decodes the RESP2 reply.
func (s *Store) Search(ctx context.Context, q *db.Query) (*db.SearchResult, error) {
	switch {
	case q.IndexName == "":
		return nil, errors.New("search: index name is required")
	case q.Limit <= 0:
		return nil, errors.New("search: limit must be positive")
	case q.Offset < 0:
		return nil, errors.New("search: offset must not be negative")
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(searchArgs(q)...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	return parseReply(raw, q.WithScores)
}

// Count returns how many documents match q. Paging, sorting and projection are ignored.
func (s *Store) Count(ctx context.Context, q *db.Query) (int, error) {
	if q.IndexName == "" {
		return 0, errors.New("count: index name is required")
	}

	cmd := s.b().Arbitrary("FT.SEARCH").
		Args(q.IndexName, buildQuery(q), "LIMIT", "0", "0", "DIALECT", "2").
		Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return 0, &db.Error{Op: db.OpSearch, Err: err}
	}
	res, err := parseReply(raw, false)
	if err != nil {
		return 0, err
	}
	return res.Total, nil
}

func searchArgs(q *db.Query) []string {
	args := []string{q.IndexName, buildQuery(q)}
	if q.WithScores {
		args = append(args, "WITHSCORES")
	}
	if n := len(q.ReturnFields); n > 0 {
		args = append(args, "RETURN", strconv.Itoa(n))
		args = append(args, q.ReturnFields...)
	}
	if q.SortBy != "" {
		dir := "ASC"
		if q.SortDesc {
			dir = "DESC"
		}
		args = append(args, "SORTBY", q.SortBy, dir)
	}
	return append(args,
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.Limit),
		"DIALECT", "2",
	)
}

// parseReply decodes [total, key, (score,) fields, key, (score,) fields, ...].
// Malformed entries are skipped; the total is kept as reported.
func parseReply(raw []rueidis.RedisMessage, scored bool) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("search: parse total: %w", err)
	}
	res := &db.SearchResult{Total: int(total)}

	stride := 2
	if scored {
		stride = 3
	}
	res.Entries = make([]db.SearchEntry, 0, (len(raw)-1)/stride)
	for i := 1; i+stride-1 < len(raw); i += stride {
		if e, ok := parseEntry(raw[i:i+stride], scored); ok {
			res.Entries = append(res.Entries, e)
		}
	}
	return res, nil
}

func parseEntry(msg []rueidis.RedisMessage, scored bool) (db.SearchEntry, bool) {
	var e db.SearchEntry
	var err error
	if e.Key, err = msg[0].ToString(); err != nil {
		return e, false
	}
	if scored {
		s, err := msg[1].ToString()
		if err != nil {
			return e, false
		}
		if e.Score, err = strconv.ParseFloat(s, 64); err != nil {
			return e, false
		}
	}
	pairs, err := msg[len(msg)-1].ToArray()
	if err != nil {
		return e, false
	}
	e.Fields = make(map[string]string, len(pairs)/2)
	for j := 0; j+1 < len(pairs); j += 2 {
		name, nerr := pairs[j].ToString()
		value, verr := pairs[j+1].ToString()
		if nerr == nil && verr == nil {
			e.Fields[name] = value
		}
	}
	return e, true
}

// buildQuery renders filters then the text clause; "*" when q constrains nothing.
func buildQuery(q *db.Query) string {
	var b strings.Builder
	writeFilter(&b, q.Filters)
	if t := buildTextClause(q.Text, q.TextFields); t != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t)
	}
	if b.Len() == 0 {
		return "*"
	}
	return b.String()
}

// buildTextClause ORs the whitespace separated terms of text, optionally scoped to fields.
func buildTextClause(text string, fields []string) string {
	terms := strings.Fields(text)
	if len(terms) == 0 {
		return ""
	}
	for i, t := range terms {
		terms[i] = escape(t)
	}

	clause := "(" + strings.Join(terms, " | ") + ")"
	if len(fields) > 0 {
		clause = "@" + strings.Join(fields, "|") + ":" + clause
	}
	return clause
}

func writeFilter(b *strings.Builder, expr filter.Expression) {
	if expr.IsEmpty() {
		return
	}
	for _, cond := range expr.Must() {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(buildTagFilter(cond.Key(), cond.Values()))
	}
	for _, cond := range expr.MustNot() {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('-')
		b.WriteString(buildTagFilter(cond.Key(), cond.Values()))
	}
}

func buildTagFilter(key string, values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = escape(v)
	}
	return "@" + key + ":{" + strings.Join(escaped, " | ") + "}"
}

// escape backslash-escapes every rune the query parser treats as syntax:
// anything other than letters, digits and underscore.
func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
