// Package refstore keeps reference answers in an embedded chromem-go vector
// database so student answers can be compared against them.
package refstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	chromem "github.com/philippgille/chromem-go"
	"go.uber.org/zap"

	"github.com/quesans/backend/internal/domain/qa"
	"github.com/quesans/backend/internal/textprep"
)

// ErrClosed is returned by operations on a closed Store.
var ErrClosed = errors.New("reference store is closed")

// Config selects where and how reference answers are stored.
type Config struct {
	Path       string // directory of the persistent database
	Collection string
	OllamaURL  string // base URL of the Ollama API, e.g. "http://localhost:11434/api"
	Model      string // embedding model

	// Embed overrides the Ollama embedding function, mainly for tests.
	Embed chromem.EmbeddingFunc
}

// Match is a stored reference answer similar to a query.
type Match struct {
	ID         string
	Question   string
	Answer     string
	Similarity float32
}

// Store is an open reference-answer collection.
type Store struct {
	mu         sync.Mutex
	db         *chromem.DB
	collection *chromem.Collection
	logger     *zap.Logger
	closed     bool
}

// Open creates or opens the persistent collection described by cfg.
func Open(cfg Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Path == "" {
		return nil, errors.New("reference store path is required")
	}
	if cfg.Collection == "" {
		cfg.Collection = "answers"
	}

	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", cfg.Path, err)
	}

	db, err := chromem.NewPersistentDB(cfg.Path, false)
	if err != nil {
		return nil, fmt.Errorf("opening vector database: %w", err)
	}

	embed := cfg.Embed
	if embed == nil {
		embed = chromem.NewEmbeddingFuncOllama(cfg.Model, cfg.OllamaURL)
	}

	collection, err := db.GetOrCreateCollection(cfg.Collection, nil, preprocessed(embed))
	if err != nil {
		return nil, fmt.Errorf("getting collection %s: %w", cfg.Collection, err)
	}

	logger.Info("reference store opened",
		zap.String("path", cfg.Path),
		zap.String("collection", cfg.Collection),
		zap.Int("documents", collection.Count()),
	)

	return &Store{
		db:         db,
		collection: collection,
		logger:     logger,
	}, nil
}

// preprocessed normalizes text before it reaches the embedding model.
func preprocessed(embed chromem.EmbeddingFunc) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return embed(ctx, textprep.Preprocess(text))
	}
}

// StoreReferenceAnswers writes each record under its index as ID. Records
// whose ID is already stored are skipped, so each ID is written at most once.
// It returns the number of records written.
func (s *Store) StoreReferenceAnswers(ctx context.Context, records []qa.Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}

	written := 0
	for i, rec := range records {
		docID := strconv.Itoa(i)
		if _, err := s.collection.GetByID(ctx, docID); err == nil {
			s.logger.Debug("reference answer already stored", zap.String("id", docID))
			continue
		}

		err := s.collection.AddDocument(ctx, chromem.Document{
			ID:      docID,
			Content: rec.Answer,
			Metadata: map[string]string{
				"question": rec.Question,
				"id":       docID,
			},
		})
		if err != nil {
			return written, fmt.Errorf("storing reference answer %s: %w", docID, err)
		}
		written++
	}

	s.logger.Info("stored reference answers",
		zap.Int("written", written),
		zap.Int("skipped", len(records)-written),
	)
	return written, nil
}

// Nearest returns up to k stored answers most similar to text.
func (s *Store) Nearest(ctx context.Context, text string, k int) ([]Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	if n := s.collection.Count(); k > n {
		k = n
	}
	if k == 0 {
		return []Match{}, nil
	}

	results, err := s.collection.Query(ctx, text, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying reference answers: %w", err)
	}

	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{
			ID:         r.ID,
			Question:   r.Metadata["question"],
			Answer:     r.Content,
			Similarity: r.Similarity,
		}
	}
	return matches, nil
}

// Count returns the number of stored reference answers.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	return s.collection.Count()
}

// Close releases the store. Data is already persisted on every write.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	s.collection = nil
	s.db = nil
	return nil
}
