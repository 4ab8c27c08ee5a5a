package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorWrapping(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"source fetch", &SourceFetchError{Source: "BleepingComputer", Err: cause}, "BleepingComputer"},
		{"storage", &StorageError{Op: "insert prospect", Err: cause}, "insert prospect"},
		{"notification transport", &NotificationDeliveryError{Err: cause}, "connection refused"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if !errors.Is(tt.err, cause) {
				t.Fatalf("expected %T to unwrap to the cause", tt.err)
			}
			if !strings.Contains(tt.err.Error(), tt.want) {
				t.Fatalf("expected %q in message, got %q", tt.want, tt.err.Error())
			}
		})
	}
}

func TestNotificationRejectedMessage(t *testing.T) {
	t.Parallel()

	err := &NotificationDeliveryError{Status: "429 Too Many Requests"}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status in message, got %q", err.Error())
	}
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("run failed: %w", &StorageError{Op: "commit", Err: errors.New("disk full")})

	var storageErr *StorageError
	if !errors.As(wrapped, &storageErr) {
		t.Fatalf("expected storage error through wrapping, got %v", wrapped)
	}
	if storageErr.Op != "commit" {
		t.Fatalf("unexpected op: %s", storageErr.Op)
	}
}

func TestConfigurationError(t *testing.T) {
	t.Parallel()

	err := &ConfigurationError{Reason: "TEAMS_WEBHOOK_URL environment variable is not set"}
	if !strings.Contains(err.Error(), "TEAMS_WEBHOOK_URL") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestArticleIDStable(t *testing.T) {
	t.Parallel()

	a := ArticleID("https://example.com/story")
	b := ArticleID("https://example.com/story")
	c := ArticleID("https://example.com/other")

	if a != b {
		t.Fatal("expected identical IDs for identical URLs")
	}
	if a == c {
		t.Fatal("expected distinct IDs for distinct URLs")
	}
	if len(a) != 64 {
		t.Fatalf("expected hex sha256 length 64, got %d", len(a))
	}
}
