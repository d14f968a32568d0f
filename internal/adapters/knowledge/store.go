package knowledge

import (
	"context"
	"sync/atomic"

	"github.com/venturelens/pulse/internal/domain/model"
	"github.com/venturelens/pulse/pkg/logger"
	"github.com/venturelens/pulse/pkg/metrics"
)

// Store serves the active knowledge-base table. Reads are lock-free; Swap
// replaces the whole table atomically, never patching in place. A failed
// reload therefore leaves the last-known-good generation untouched.
type Store struct {
	table      atomic.Pointer[Table]
	generation atomic.Uint64
	logger     logger.Logger
}

// StoreOption applies a configuration option to the Store.
type StoreOption func(*Store)

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates an empty store; Swap installs the first table.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		logger: logger.Get().Named("knowledge"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Swap installs a new table generation.
func (s *Store) Swap(ctx context.Context, t *Table) {
	s.table.Store(t)
	gen := s.generation.Add(1)
	metrics.UpdateKnowledgeProfiles(t.Len())
	s.logger.Info(ctx, "knowledge base swapped",
		logger.String("version", t.Version),
		logger.Int("profiles", t.Len()),
		logger.Int("generation", int(gen)),
	)
}

// Current returns the active table, nil before the first Swap.
func (s *Store) Current() *Table {
	return s.table.Load()
}

// Generation counts installed tables; cache keys include it so cached
// reports never outlive the knowledge base they came from.
func (s *Store) Generation() uint64 {
	return s.generation.Load()
}

// Lookup resolves key against the active table. Missing clusters are not an
// error: the general profile answers, logged as a notice and counted.
func (s *Store) Lookup(ctx context.Context, key model.ClusterKey) (*model.ClusterProfile, bool) {
	t := s.Current()
	if t == nil {
		return nil, false
	}
	p, fallback := t.Lookup(key)
	if fallback {
		metrics.RecordProfileFallback()
		s.logger.Debug(ctx, "no exact cluster profile, using general",
			logger.String("segment", key.Segment),
			logger.String("stage", key.Stage),
		)
	}
	return p, fallback
}
