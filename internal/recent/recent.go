// Package recent keeps the host's recent-documents list.
package recent

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
)

// Doc is a recently opened or saved document.
type Doc struct {
	Path     string    `json:"path"`
	OpenedAt time.Time `json:"opened_at"`
}

// Store is a bounded, most-recent-first list of document paths.
type Store interface {
	// Add moves path to the front, inserting it when absent, and trims the
	// list to its capacity.
	Add(ctx context.Context, path string) error
	// List returns at most limit docs, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Doc, error)
	Clear(ctx context.Context) error
	Close() error
}

var ErrClosed = errors.New("recent: store closed")

// DefaultMax is used when a store is opened with a non-positive capacity.
const DefaultMax = 20

// Open returns a Store for dsn: "sqlite://<path>" or "mem://".
func Open(ctx context.Context, dsn string, max int) (Store, error) {
	if max <= 0 {
		max = DefaultMax
	}
	if strings.HasPrefix(dsn, "mem://") {
		return NewMem(max), nil
	}
	s, err := openSQLite(ctx, strings.TrimPrefix(dsn, "sqlite://"), max)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Filter returns the docs whose path fuzzy-matches query, best match first.
// An empty query returns docs unchanged.
func Filter(query string, docs []Doc) []Doc {
	if strings.TrimSpace(query) == "" {
		return docs
	}
	paths := make([]string, len(docs))
	for i, d := range docs {
		paths[i] = d.Path
	}
	matches := fuzzy.Find(query, paths)
	out := make([]Doc, 0, len(matches))
	for _, m := range matches {
		out = append(out, docs[m.Index])
	}
	return out
}
