package categorizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
)

var (
	// ErrNoQuestions is returned when categorization is requested before questions are loaded.
	ErrNoQuestions = errors.New("no questions loaded")
	// ErrNoCategories is returned when categorization is requested before categories are loaded.
	ErrNoCategories = errors.New("no categories loaded")
	// ErrSuperseded is returned when a newer categorization started before this one finished.
	ErrSuperseded = errors.New("categorization superseded by a newer request")
)

// Service wires the importer, the categorization client and the application store.
type Service struct {
	client Categorizer
	store  *Store

	cfgMu    sync.RWMutex
	cfg      Config
	importer *Importer

	logger zerolog.Logger
}

// NewService constructs a service with the given client and configuration.
func NewService(client Categorizer, cfg Config, logger zerolog.Logger) (*Service, error) {
	if client == nil {
		return nil, errors.New("categorization client is required")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		client:   client,
		store:    NewStore(),
		cfg:      cfg,
		importer: NewImporter(cfg.Columns),
		logger:   logger.With().Str("component", "service").Logger(),
	}, nil
}

// Store exposes the application state.
func (s *Service) Store() *Store {
	return s.store
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg.Clone()
}

// UpdateConfig replaces the configuration. The client is not rebuilt; only import settings
// and reconciliation take effect.
func (s *Service) UpdateConfig(cfg Config) error {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfgMu.Lock()
	s.cfg = cfg
	s.importer = NewImporter(cfg.Columns)
	s.cfgMu.Unlock()
	return nil
}

func (s *Service) currentImporter() *Importer {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.importer
}

// Import reads r as the given kind and replaces the matching list in the store. A nil reader
// leaves the store untouched and returns nil, nil.
func (s *Service) Import(name string, r io.Reader, kind Kind) (*ImportResult, error) {
	res, err := s.currentImporter().Import(name, r, kind)
	return s.apply(res, err, kind)
}

// ImportFile is Import for a path on disk. An empty path is a no-op.
func (s *Service) ImportFile(path string, kind Kind) (*ImportResult, error) {
	res, err := s.currentImporter().ImportFile(path, kind)
	return s.apply(res, err, kind)
}

func (s *Service) apply(res *ImportResult, err error, kind Kind) (*ImportResult, error) {
	if err != nil {
		s.logger.Error().Err(err).Str("kind", string(kind)).Msg("import failed")
		return nil, err
	}
	if res == nil {
		s.logger.Debug().Str("kind", string(kind)).Msg("no file supplied, import skipped")
		return nil, nil
	}
	switch kind {
	case KindCategories:
		s.store.SetCategories(res.Categories, res.Preview)
	default:
		s.store.SetQuestions(res.Questions, res.Preview)
	}
	s.logger.Info().
		Str("kind", string(kind)).
		Str("source", res.Source).
		Str("sheet", res.Sheet).
		Int("rows", res.Len()).
		Msg("imported spreadsheet")
	return res, nil
}

// Categorize sends the held questions and categories to the client and replaces the held
// results. When a newer call starts first, the response is discarded and ErrSuperseded is
// returned alongside it.
func (s *Service) Categorize(ctx context.Context) ([]Result, error) {
	state := s.store.Snapshot()
	if len(state.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	if len(state.Categories) == 0 {
		return nil, ErrNoCategories
	}
	cfg := s.Config()

	token := s.store.BeginCategorize()
	log := s.logger.With().Uint64("generation", token).Logger()
	log.Info().
		Int("questions", len(state.Questions)).
		Int("categories", len(state.Categories)).
		Msg("categorization started")

	results, err := s.client.Categorize(ctx, state.Questions, state.Categories)
	if err != nil {
		err = fmt.Errorf("categorize questions: %w", err)
		if !s.store.FailCategorize(token, err) {
			log.Debug().Err(err).Msg("stale categorization failed")
			return nil, ErrSuperseded
		}
		log.Error().Err(err).Msg("categorization failed")
		return nil, err
	}
	if len(results) != len(state.Questions) {
		log.Warn().
			Int("questions", len(state.Questions)).
			Int("results", len(results)).
			Msg("result count differs from question count")
	}
	if cfg.ReconcileByText {
		results = Reconcile(state.Questions, results)
	}
	if !s.store.ApplyResults(token, results) {
		log.Info().Msg("discarding superseded categorization response")
		return results, ErrSuperseded
	}
	log.Info().
		Int("results", len(results)).
		Int("categories", len(Aggregate(results).Categories)).
		Msg("categorization finished")
	return results, nil
}
