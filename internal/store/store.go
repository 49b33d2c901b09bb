// Package store persists quote records as a single JSON document.
// Every read loads the document fresh and every write rewrites it whole;
// mutations run under one mutex so readers never observe a partial state.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/msplaco/quote-api/internal/domain"
	"go.uber.org/zap"
)

// QuoteStore is a durable mapping of quote records backed by one JSON file
type QuoteStore struct {
	path   string
	logger *zap.Logger

	// mu guards load+mutate+save as a unit; concurrent submits would
	// otherwise race on NextID and overwrite each other's insert
	mu sync.Mutex
}

// New creates a quote store over the given document path. The parent
// directory is created if missing. An existing document is parsed once:
// a corrupt document fails startup rather than being silently treated
// as an empty store.
func New(path string, logger *zap.Logger) (*QuoteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	s := &QuoteStore{path: path, logger: logger}

	quotes, err := s.load()
	if err != nil {
		return nil, fmt.Errorf("store document %s is unreadable: %w", path, err)
	}
	logger.Info("quote store opened",
		zap.String("path", path),
		zap.Int("quotes", len(quotes)),
	)
	return s, nil
}

// Path returns the location of the store document
func (s *QuoteStore) Path() string {
	return s.path
}

// LoadAll reads the persisted document. An absent file yields an empty
// sequence; an unparsable file yields an error.
func (s *QuoteStore) LoadAll() ([]domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// SaveAll serializes the full ordered sequence back to the document,
// overwriting it atomically from the caller's point of view.
func (s *QuoteStore) SaveAll(quotes []domain.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(quotes)
}

// Update runs fn over the current sequence and persists its result,
// holding the store lock across load, mutate and save. All handler
// mutations go through here. If fn returns an error nothing is written.
func (s *QuoteStore) Update(fn func(quotes []domain.Quote) ([]domain.Quote, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	quotes, err := s.load()
	if err != nil {
		return err
	}
	updated, err := fn(quotes)
	if err != nil {
		return err
	}
	return s.save(updated)
}

func (s *QuoteStore) load() ([]domain.Quote, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Quote{}, nil
		}
		return nil, fmt.Errorf("failed to read store document: %w", err)
	}

	var quotes []domain.Quote
	if err := json.Unmarshal(data, &quotes); err != nil {
		return nil, fmt.Errorf("failed to parse store document: %w", err)
	}
	if quotes == nil {
		quotes = []domain.Quote{}
	}
	return quotes, nil
}

// save writes the document through a temp file and rename so a reader
// sees either the full prior state or the full new state
func (s *QuoteStore) save(quotes []domain.Quote) error {
	data, err := json.MarshalIndent(quotes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize quotes: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".quotes-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp document: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write store document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp document: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set document permissions: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace store document: %w", err)
	}
	return nil
}

// NextID returns 1 + max(existing ids), or 1 for an empty sequence.
// Ids are unique and monotonically assigned, never reused.
func NextID(quotes []domain.Quote) int {
	max := 0
	for _, q := range quotes {
		if q.ID > max {
			max = q.ID
		}
	}
	return max + 1
}

// FindByID returns the quote with the given id, or false if absent
func FindByID(quotes []domain.Quote, id int) (*domain.Quote, bool) {
	for i := range quotes {
		if quotes[i].ID == id {
			return &quotes[i], true
		}
	}
	return nil, false
}
