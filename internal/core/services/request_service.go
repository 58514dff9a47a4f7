package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amhub/dataworld/internal/core/domain"
	"github.com/amhub/dataworld/internal/core/ports"
	"github.com/amhub/dataworld/pkg/logger"
)

// ErrUnknownProduct is returned when a certification request names a product
// that is not in the current snapshot
var ErrUnknownProduct = errors.New("unknown product")

// SubmitResult is delivered once the notifier has finished
type SubmitResult struct {
	Submission domain.Submission
	Channel    string
	Err        error // *domain.TransportError on delivery failure
}

// RequestService validates and dispatches certification requests and contact messages
type RequestService struct {
	catalog  ports.SnapshotProvider
	notifier ports.Notifier
	log      *logger.Logger
	timeout  time.Duration
	now      func() time.Time

	wg sync.WaitGroup
}

// NewRequestService creates a new request service.
// timeout bounds each delivery; zero means 30 seconds.
func NewRequestService(catalog ports.SnapshotProvider, notifier ports.Notifier, timeout time.Duration, log *logger.Logger) *RequestService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &RequestService{
		catalog:  catalog,
		notifier: notifier,
		log:      log.With("component", "requests", "channel", notifier.Name()),
		timeout:  timeout,
		now:      time.Now,
	}
}

// Prepare normalizes and validates sub and stamps its ID and creation time
func (s *RequestService) Prepare(sub domain.Submission) (domain.Submission, error) {
	sub.Normalize()
	if err := sub.Validate(); err != nil {
		return sub, err
	}

	if sub.Kind == domain.KindCertificationRequest {
		cat := s.catalog.Snapshot()
		if cat == nil {
			return sub, domain.ErrCatalogNotLoaded
		}
		if _, ok := cat.Find(sub.Product); !ok {
			return sub, fmt.Errorf("%w: %q", ErrUnknownProduct, sub.Product)
		}
	}

	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = s.now().UTC()
	}
	return sub, nil
}

// Submit validates sub synchronously and delivers it in the background.
// The returned channel yields exactly one result and is then closed.
// Delivery ignores ctx cancellation and is bounded by the service timeout.
func (s *RequestService) Submit(ctx context.Context, sub domain.Submission) (<-chan SubmitResult, error) {
	prepared, err := s.Prepare(sub)
	if err != nil {
		return nil, err
	}

	results := make(chan SubmitResult, 1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(results)

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		err := s.notifier.Notify(sendCtx, prepared)
		if err != nil {
			var te *domain.TransportError
			if !errors.As(err, &te) {
				err = &domain.TransportError{Endpoint: s.notifier.Name(), Err: err}
			}
			s.log.Warn("submission failed",
				"id", prepared.ID,
				"kind", prepared.Kind,
				"requester_email", prepared.RequesterEmail,
				"error", err,
			)
		} else {
			s.log.Info("submission delivered",
				"id", prepared.ID,
				"kind", prepared.Kind,
				"product", prepared.Product,
			)
		}
		results <- SubmitResult{Submission: prepared, Channel: s.notifier.Name(), Err: err}
	}()

	return results, nil
}

// SubmitAndWait is Submit followed by waiting for the result or ctx
func (s *RequestService) SubmitAndWait(ctx context.Context, sub domain.Submission) (SubmitResult, error) {
	ch, err := s.Submit(ctx, sub)
	if err != nil {
		return SubmitResult{}, err
	}
	select {
	case res := <-ch:
		return res, nil
	case <-ctx.Done():
		return SubmitResult{}, ctx.Err()
	}
}

// Wait blocks until every background delivery has finished
func (s *RequestService) Wait() {
	s.wg.Wait()
}

// Channel names the notifier in use
func (s *RequestService) Channel() string {
	return s.notifier.Name()
}
