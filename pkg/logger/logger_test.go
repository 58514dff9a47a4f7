package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"", "quiet", "dev", "prod", "off"} {
		l, err := New(mode)
		if err != nil {
			t.Errorf("New(%q) failed: %v", mode, err)
			continue
		}
		if l.SugaredLogger == nil {
			t.Errorf("New(%q) returned a logger without a sink", mode)
		}
	}

	if _, err := New("verbose"); err == nil {
		t.Error("New(verbose) should fail")
	}
}

func TestLogger_Redacts(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.Info("submitted", "notify_token", "abc123", "requester_email", "Ada@Example.com", "product", "Quantum Carbon")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()

	if fields["notify_token"] != "[REDACTED]" {
		t.Errorf("notify_token = %v, want [REDACTED]", fields["notify_token"])
	}
	email, _ := fields["requester_email"].(string)
	if !strings.HasPrefix(email, "hash:") {
		t.Errorf("requester_email = %q, want hashed value", email)
	}
	if fields["product"] != "Quantum Carbon" {
		t.Errorf("product = %v, want Quantum Carbon", fields["product"])
	}
}

func TestLogger_OddKeyValues(t *testing.T) {
	got := sanitizeKVs([]interface{}{"a", 1, "dangling"})
	if len(got) != 3 || got[2] != "dangling" {
		t.Errorf("sanitizeKVs = %v", got)
	}
}
