package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/amhub/dataworld/internal/core/domain"
	"github.com/amhub/dataworld/internal/core/ports"
)

// Outbox appends submissions to a JSON lines file.
// It is used when no notification endpoint is configured.
type Outbox struct {
	path string
	mu   sync.Mutex
}

var _ ports.Notifier = (*Outbox)(nil)

// NewOutbox creates an outbox notifier writing to path
func NewOutbox(path string) *Outbox {
	return &Outbox{path: path}
}

func (o *Outbox) Name() string {
	return "outbox"
}

// Path returns the outbox file location
func (o *Outbox) Path() string {
	return o.path
}

func (o *Outbox) Notify(ctx context.Context, sub domain.Submission) error {
	if err := ctx.Err(); err != nil {
		return &domain.TransportError{Endpoint: o.path, Err: err}
	}

	line, err := json.Marshal(sub)
	if err != nil {
		return &domain.TransportError{Endpoint: o.path, Err: err}
	}
	line = append(line, '\n')

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(o.path), 0755); err != nil {
		return &domain.TransportError{Endpoint: o.path, Err: err}
	}
	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return &domain.TransportError{Endpoint: o.path, Err: err}
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return &domain.TransportError{Endpoint: o.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &domain.TransportError{Endpoint: o.path, Err: err}
	}
	return nil
}

// ReadOutbox returns every submission stored in the outbox file
func ReadOutbox(path string) ([]domain.Submission, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []domain.Submission
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var sub domain.Submission
		if err := dec.Decode(&sub); err != nil {
			return out, fmt.Errorf("corrupt outbox entry %d: %w", len(out)+1, err)
		}
		out = append(out, sub)
	}
	return out, nil
}
