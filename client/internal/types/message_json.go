package types

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// timeLayouts are tried in order for created_at. The second and third cover
// the default Rails/ActiveSupport renderings.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
}

// UnmarshalJSON never fails on a well-formed JSON value, so one odd element
// cannot discard the rest of a message list.
func (m *Message) UnmarshalJSON(b []byte) error {
	*m = Message{Raw: append(json.RawMessage(nil), b...)}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil || fields == nil {
		// null or a non-object element: keep it verbatim.
		if !json.Valid(b) {
			return err
		}
		return nil
	}
	m.ID = scalarString(fields["id"])
	m.SenderID = scalarString(fields["sender_id"])
	if m.SenderID == "" {
		m.SenderID = scalarString(fields["sender"])
	}
	m.RecipientID = scalarString(fields["recipient_id"])
	m.RoomID = scalarString(fields["room_id"])
	m.Message = scalarString(fields["message"])
	m.CreatedAt = parseTime(scalarString(fields["created_at"]))
	return nil
}

// MarshalJSON re-emits the received element unchanged; locally built
// messages encode field by field.
func (m Message) MarshalJSON() ([]byte, error) {
	if len(m.Raw) > 0 {
		return m.Raw, nil
	}
	type plain Message
	return json.Marshal(plain(m))
}

// scalarString renders a JSON string or number as a string. Anything else,
// including a missing value, yields "".
func scalarString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	default:
		return ""
	}
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
