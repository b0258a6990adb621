package dream

import (
	"context"
	"time"
)

// Limiter admits or rejects one attempt for a client key.
type Limiter interface {
	Allow(key string) bool
}

type Service struct {
	Store   Store
	Limiter Limiter
	Policy  ContentPolicy

	// InterpreterName is used when an interpretation names no author.
	InterpreterName string
	// Timeout bounds every store call. Zero means no bound.
	Timeout time.Duration

	now func() time.Time
}

func NewService(store Store, limiter Limiter, policy ContentPolicy, interpreter string, timeout time.Duration) *Service {
	return &Service{
		Store:           store,
		Limiter:         limiter,
		Policy:          policy,
		InterpreterName: interpreter,
		Timeout:         timeout,
		now:             time.Now,
	}
}

func (s *Service) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.Timeout)
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

func (s *Service) Get(ctx context.Context, id string) (Dream, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.Store.GetByID(ctx, id)
}

// Delete hard-deletes a dream. It reports ErrNotFound when nothing was removed.
func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	ok, err := s.Store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Stats(ctx context.Context) (Counts, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.Store.CountByStatus(ctx)
}
