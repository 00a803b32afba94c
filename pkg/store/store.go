// Package store persists story documents and branch records.
//
// Two backends are available: MongoStore for server deployments and
// MemoryStore for tests and single-process usage. Both speak
// [storyfile.Document], the same format used for files and API payloads,
// so a story moves between disk, wire, and database without conversion.
package store

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/storyloom/storyloom/pkg/storyfile"
)

// ErrNotFound is returned when a requested story does not exist.
var ErrNotFound = errors.New("story not found")

// StoryRecord is a stored story with its metadata.
type StoryRecord struct {
	ID        string             `bson:"_id" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Document  storyfile.Document `bson:"document" json:"document"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// StoryInfo is the listing view of a stored story.
type StoryInfo struct {
	ID        string    `bson:"_id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Store is the persistence interface for stories.
type Store interface {
	// Save creates or replaces a story record.
	Save(ctx context.Context, rec StoryRecord) error

	// Load retrieves a story by ID. Returns ErrNotFound if absent.
	Load(ctx context.Context, id string) (StoryRecord, error)

	// List returns metadata for all stored stories, most recently
	// updated first.
	List(ctx context.Context) ([]StoryInfo, error)

	// Delete removes a story. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// MemoryStore is an in-memory store for tests and single-process usage.
// Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]StoryRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]StoryRecord)}
}

// Save creates or replaces a story record.
func (s *MemoryStore) Save(ctx context.Context, rec StoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	return nil
}

// Load retrieves a story by ID.
func (s *MemoryStore) Load(ctx context.Context, id string) (StoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return StoryRecord{}, ErrNotFound
	}
	return rec, nil
}

// List returns metadata for all stored stories.
func (s *MemoryStore) List(ctx context.Context) ([]StoryInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]StoryInfo, 0, len(s.records))
	for _, rec := range s.records {
		infos = append(infos, StoryInfo{ID: rec.ID, Title: rec.Title, UpdatedAt: rec.UpdatedAt})
	}
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].UpdatedAt.Equal(infos[j].UpdatedAt) {
			return infos[i].UpdatedAt.After(infos[j].UpdatedAt)
		}
		return infos[i].ID < infos[j].ID
	})
	return slices.Clip(infos), nil
}

// Delete removes a story.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
