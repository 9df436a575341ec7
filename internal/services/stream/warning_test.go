package stream

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

// TestWarningLoggerEmitsEvents verifies that warn-level log records reach
// the event stream with their path attached, while lower levels stay on
// the logger only.
func TestWarningLoggerEmitsEvents(testingHandle *testing.T) {
	events := make(chan Event, 2)
	streamEmitter := newEmitter(context.Background(), events)
	teedLogger := newWarningLogger(zap.NewNop(), streamEmitter)

	teedLogger.Warn("skipping entry with unreadable metadata", zap.String("path", "/data/broken"))
	teedLogger.Info("informational record")
	close(events)

	var collected []Event
	for event := range events {
		collected = append(collected, event)
	}
	if len(collected) != 1 {
		testingHandle.Fatalf("expected one warning event, got %d", len(collected))
	}
	warningEvent := collected[0]
	if warningEvent.Kind != EventKindWarning || warningEvent.Message == nil {
		testingHandle.Fatalf("unexpected event: %+v", warningEvent)
	}
	if warningEvent.Message.Message != "skipping entry with unreadable metadata" {
		testingHandle.Fatalf("unexpected warning message %q", warningEvent.Message.Message)
	}
	if warningEvent.Path != "/data/broken" {
		testingHandle.Fatalf("expected the path field on the event, got %q", warningEvent.Path)
	}
	if warningEvent.Version != SchemaVersion {
		testingHandle.Fatalf("expected schema version %d, got %d", SchemaVersion, warningEvent.Version)
	}
}

// TestWarningLoggerCarriesContextFields verifies that fields attached via
// With survive onto the emitted event.
func TestWarningLoggerCarriesContextFields(testingHandle *testing.T) {
	events := make(chan Event, 1)
	streamEmitter := newEmitter(context.Background(), events)
	teedLogger := newWarningLogger(zap.NewNop(), streamEmitter).With(zap.String("path", "/data/scoped"))

	teedLogger.Warn("scoped warning")
	close(events)

	warningEvent, ok := <-events
	if !ok {
		testingHandle.Fatalf("expected a warning event")
	}
	if warningEvent.Path != "/data/scoped" {
		testingHandle.Fatalf("expected the contextual path on the event, got %q", warningEvent.Path)
	}
}
