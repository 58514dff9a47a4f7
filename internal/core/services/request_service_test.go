package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amhub/dataworld/internal/core/domain"
	"github.com/amhub/dataworld/internal/core/ports/mocks"
)

func newRequestService(notifier *mocks.MockNotifier) *RequestService {
	return NewRequestService(staticSnapshot{cat: mocks.ReferenceCatalog()}, notifier, time.Second, nil)
}

func TestRequestService_Submit(t *testing.T) {
	notifier := mocks.NewMockNotifier()
	svc := newRequestService(notifier)
	svc.now = func() time.Time { return time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC) }

	ch, err := svc.Submit(context.Background(), domain.Submission{
		Kind:           domain.KindCertificationRequest,
		Product:        "Quantum Carbon",
		RequesterEmail: "buyer@example.com",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	res := <-ch
	if res.Err != nil {
		t.Fatalf("delivery failed: %v", res.Err)
	}
	if res.Submission.ID == "" {
		t.Error("submission should get an ID")
	}
	if res.Submission.Message != domain.DefaultRequestMessage("Quantum Carbon") {
		t.Errorf("Message = %q, want default request message", res.Submission.Message)
	}
	if !res.Submission.CreatedAt.Equal(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("CreatedAt = %v", res.Submission.CreatedAt)
	}
	if _, open := <-ch; open {
		t.Error("result channel should be closed after one result")
	}

	sent := notifier.Sent()
	if len(sent) != 1 || sent[0].Product != "Quantum Carbon" {
		t.Errorf("sent = %+v", sent)
	}
}

func TestRequestService_ValidationIsSynchronous(t *testing.T) {
	tests := []struct {
		name    string
		sub     domain.Submission
		wantErr error
	}{
		{
			name:    "unknown product",
			sub:     domain.Submission{Kind: domain.KindCertificationRequest, Product: "Unobtainium", RequesterEmail: "a@b.co"},
			wantErr: ErrUnknownProduct,
		},
		{
			name: "bad email",
			sub:  domain.Submission{Kind: domain.KindContact, RequesterEmail: "nope", Message: "hello"},
		},
		{
			name: "empty contact message",
			sub:  domain.Submission{Kind: domain.KindContact, RequesterEmail: "a@b.co"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := mocks.NewMockNotifier()
			svc := newRequestService(notifier)

			ch, err := svc.Submit(context.Background(), tt.sub)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if ch != nil {
				t.Error("no delivery should start for an invalid submission")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			svc.Wait()
			if len(notifier.Sent()) != 0 {
				t.Error("invalid submission reached the notifier")
			}
		})
	}
}

func TestRequestService_TransportError(t *testing.T) {
	notifier := mocks.NewMockNotifier()
	notifier.SetShouldFail(true, errors.New("connection refused"))
	svc := newRequestService(notifier)

	res, err := svc.SubmitAndWait(context.Background(), domain.Submission{
		Kind:           domain.KindContact,
		RequesterEmail: "ada@example.com",
		Message:        "Do you stock TPU in white?",
	})
	if err != nil {
		t.Fatalf("SubmitAndWait failed: %v", err)
	}

	var te *domain.TransportError
	if !errors.As(res.Err, &te) {
		t.Fatalf("Err = %v, want *domain.TransportError", res.Err)
	}
	if te.Endpoint != "mock" {
		t.Errorf("Endpoint = %q, want mock", te.Endpoint)
	}
}

func TestRequestService_DoesNotBlockCaller(t *testing.T) {
	notifier := mocks.NewMockNotifier()
	release := notifier.Block()
	defer release()
	svc := newRequestService(notifier)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var ch <-chan SubmitResult
	go func() {
		defer close(done)
		var err error
		ch, err = svc.Submit(ctx, domain.Submission{
			Kind:           domain.KindCertificationRequest,
			Product:        "White 3D xiate",
			RequesterEmail: "a@b.co",
		})
		if err != nil {
			t.Errorf("Submit failed: %v", err)
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on the notifier")
	}

	// cancelling the caller's context must not abort the delivery
	cancel()
	release()

	select {
	case res := <-ch:
		if res.Err != nil {
			t.Errorf("delivery failed: %v", res.Err)
		}
	case <-time.After(time.Second):
		t.Fatal("delivery never completed")
	}
}

func TestRequestService_NotLoaded(t *testing.T) {
	svc := NewRequestService(staticSnapshot{}, mocks.NewMockNotifier(), 0, nil)
	_, err := svc.Submit(context.Background(), domain.Submission{
		Kind:           domain.KindCertificationRequest,
		Product:        "Quantum Carbon",
		RequesterEmail: "a@b.co",
	})
	if !errors.Is(err, domain.ErrCatalogNotLoaded) {
		t.Errorf("error = %v, want ErrCatalogNotLoaded", err)
	}

	// contact messages do not need a catalog
	res, err := svc.SubmitAndWait(context.Background(), domain.Submission{
		Kind:           domain.KindContact,
		RequesterEmail: "a@b.co",
		Message:        "hello",
	})
	if err != nil || res.Err != nil {
		t.Errorf("contact submit failed: %v / %v", err, res.Err)
	}
}
