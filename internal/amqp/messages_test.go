package amqp

import (
	"testing"
	"time"
)

func TestSnapshotSavedMessageJSON(t *testing.T) {
	msg := NewSnapshotSavedMessage("invoice-draft", 42)
	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("to json: %v", err)
	}

	got, err := SnapshotSavedMessageFromJSON(data)
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	if got.Key != "invoice-draft" || got.Revision != 42 {
		t.Fatalf("unexpected message %+v", got)
	}
	if got.SavedAt.IsZero() || time.Since(got.SavedAt) > time.Minute {
		t.Fatalf("savedAt not stamped: %v", got.SavedAt)
	}
}

func TestSnapshotSavedMessageFromJSONInvalid(t *testing.T) {
	if _, err := SnapshotSavedMessageFromJSON([]byte("{broken")); err == nil {
		t.Fatalf("expected an error for malformed JSON")
	}
}
