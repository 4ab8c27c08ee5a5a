package domain

import "fmt"

// The error taxonomy separates recoverable per-item failures from fatal
// run-level failures. Source and notification errors are isolated and logged;
// storage and configuration errors abort immediately.

// SourceFetchError marks one feed as unreachable or malformed. The run
// continues with that source contributing an empty article list.
type SourceFetchError struct {
	Source string
	Err    error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("fetch source %s: %v", e.Source, e.Err)
}

func (e *SourceFetchError) Unwrap() error { return e.Err }

// StorageError means the dedup store is unreadable or unwritable. Fatal:
// dedup correctness depends on it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NotificationDeliveryError means the webhook was unreachable or rejected the
// payload. Logged; the run still reports success.
type NotificationDeliveryError struct {
	Status string
	Err    error
}

func (e *NotificationDeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("notification delivery: %v", e.Err)
	}
	return fmt.Sprintf("notification rejected: %s", e.Status)
}

func (e *NotificationDeliveryError) Unwrap() error { return e.Err }

// ConfigurationError reports a missing or invalid required setting. Fatal at
// startup, before any network activity.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s", e.Reason)
}
