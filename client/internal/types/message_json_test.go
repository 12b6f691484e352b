package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMessage_DecodesNumericIDsAndSender(t *testing.T) {
	t.Parallel()
	body := `[{"id":1,"sender":"alice","recipient_id":42,"message":"hi","created_at":"2025-03-01 12:00:00 UTC","read":false}]`
	var msgs []Message
	if err := json.Unmarshal([]byte(body), &msgs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	m := msgs[0]
	if m.ID != "1" || m.SenderID != "alice" || m.RecipientID != "42" || m.Message != "hi" {
		t.Fatalf("unexpected message: %+v", m)
	}
	if want := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC); !m.CreatedAt.Equal(want) {
		t.Fatalf("expected %s, got %s", want, m.CreatedAt)
	}
}

func TestMessage_ReencodesUnmodified(t *testing.T) {
	t.Parallel()
	body := `[{"id":1,"sender":"alice","message":"hi","created_at":null,"extra":{"k":[1,2]}},"odd",null]`
	var msgs []Message
	if err := json.Unmarshal([]byte(body), &msgs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(msgs))
	}
	if !msgs[0].CreatedAt.IsZero() {
		t.Fatalf("null created_at should stay zero, got %s", msgs[0].CreatedAt)
	}
	out, err := json.Marshal(msgs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != body {
		t.Fatalf("expected %s, got %s", body, out)
	}
}

func TestMessage_BadTimestampKeepsMessage(t *testing.T) {
	t.Parallel()
	var m Message
	if err := json.Unmarshal([]byte(`{"id":"m1","message":"hi","created_at":"yesterday"}`), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.ID != "m1" || m.Message != "hi" || !m.CreatedAt.IsZero() {
		t.Fatalf("unexpected message: %+v", m)
	}
}

func TestMessage_LocalValueEncodesFields(t *testing.T) {
	t.Parallel()
	out, err := json.Marshal(Message{ID: "m1", Message: "hi"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back["id"] != "m1" || back["message"] != "hi" {
		t.Fatalf("unexpected encoding: %s", out)
	}
	if _, ok := back["Raw"]; ok {
		t.Fatalf("Raw must not be encoded: %s", out)
	}
}
