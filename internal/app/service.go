package app

import (
	"context"
	"errors"
	"fmt"

	"futuredecide/internal/engine"
	"futuredecide/internal/storage"
)

type Store interface {
	LoadDocument(ctx context.Context) (storage.Document, error)
	SaveDocument(ctx context.Context, doc storage.Document) error
}

type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

// Service owns the picker state and writes it back after every mutation.
type Service struct {
	store Store
	log   Logger
	rnd   engine.Rand
	state *engine.State
}

// Open loads saved state, falling back to defaults when nothing usable is
// stored, seeds empty pools and persists the result.
func Open(ctx context.Context, store Store, log Logger, rnd engine.Rand) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is nil")
	}
	if rnd == nil {
		rnd = engine.NewRuntimeRand()
	}
	if log == nil {
		log = nopLogger{}
	}

	state := engine.NewState()
	doc, err := store.LoadDocument(ctx)
	switch {
	case err == nil:
		state = doc.State()
	case errors.Is(err, storage.ErrNotFound):
		log.Debug("no saved state, starting fresh")
	case errors.Is(err, storage.ErrMalformed):
		log.Warn("saved state unreadable, using defaults", "err", err)
	default:
		return nil, fmt.Errorf("load state: %w", err)
	}

	for _, p := range state.SeedEmpty() {
		log.Info("seeded sample items", "picker", p)
	}
	svc := &Service{store: store, log: log, rnd: rnd, state: state}
	if err := svc.save(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// Apply runs cmd and persists the state when it changed. Engine rejections
// are returned untouched so callers can match them with errors.Is. When the
// save fails the in-memory state is rolled back, so nothing is reported that
// would be lost on restart.
func (s *Service) Apply(ctx context.Context, cmd engine.Command) (engine.Outcome, error) {
	prev := s.state.Clone()
	out, err := s.state.Apply(cmd, s.rnd)
	if err != nil {
		s.log.Debug("command rejected", "cmd", cmd.Name(), "err", err)
		return out, err
	}
	s.log.Debug("command applied", "cmd", cmd.Name(), "changed", out.Changed)
	if !out.Changed {
		return out, nil
	}
	if err := s.save(ctx); err != nil {
		s.state = prev
		return engine.Outcome{}, err
	}
	return out, nil
}

// State returns a detached copy of the current state.
func (s *Service) State() *engine.State {
	return s.state.Clone()
}

// NewSpin draws the rotation for the next wheel spin.
func (s *Service) NewSpin() engine.Spin {
	return engine.NewSpin(s.rnd)
}

// Export renders a pool as the JSON array accepted by import.
func (s *Service) Export(p engine.Picker) ([]byte, error) {
	pool, err := s.state.Pool(p)
	if err != nil {
		return nil, err
	}
	return engine.Export(pool.Items())
}

func (s *Service) save(ctx context.Context) error {
	if err := s.store.SaveDocument(ctx, storage.DocumentFromState(s.state)); err != nil {
		s.log.Error("save state failed", "err", err)
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
