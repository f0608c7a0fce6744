package messenger

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestClassify_Priority(t *testing.T) {
	tests := []struct {
		name  string
		event Messaging
		want  EventType
	}{
		{"message", Messaging{Message: &Message{MID: "m1", Text: "help"}}, EventMessage},
		{"echo message still classifies as message", Messaging{Message: &Message{MID: "m2", IsEcho: true}}, EventMessage},
		{"postback", Messaging{Postback: &Postback{Payload: "QR_PHOTO_1"}}, EventPostback},
		{"delivery", Messaging{Delivery: &Delivery{MIDs: []string{"m1"}, Watermark: 123}}, EventDelivery},
		{"read", Messaging{Read: &Read{Watermark: 456}}, EventRead},
		{"account linking", Messaging{AccountLinking: &AccountLinking{Status: "linked"}}, EventAccountLinking},
		{"optin", Messaging{Optin: &Optin{Ref: "PASS_THREAD"}}, EventOptin},
		{"empty event", Messaging{}, EventUnknown},
		{"message wins over delivery", Messaging{Message: &Message{MID: "m3"}, Delivery: &Delivery{Watermark: 1}}, EventMessage},
		{"postback wins over read", Messaging{Postback: &Postback{Payload: "x"}, Read: &Read{Watermark: 1}}, EventPostback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := &Envelope{
				Object: "page",
				Entry:  []Entry{{ID: "page-1", Messaging: []Messaging{tt.event}}},
			}
			got := Classify(env)
			if len(got) != 1 {
				t.Fatalf("Classify() returned %d events, want 1", len(got))
			}
			if got[0].Type != tt.want {
				t.Errorf("Classify() type = %v, want %v", got[0].Type, tt.want)
			}
		})
	}
}

func TestClassify_NonPageObject(t *testing.T) {
	env := &Envelope{
		Object: "group",
		Entry:  []Entry{{ID: "g1", Messaging: []Messaging{{Message: &Message{Text: "hi"}}}}},
	}

	if got := Classify(env); got != nil {
		t.Errorf("Classify(non-page) = %v, want nil", got)
	}
}

func TestClassify_NilEnvelope(t *testing.T) {
	if got := Classify(nil); got != nil {
		t.Errorf("Classify(nil) = %v, want nil", got)
	}
}

func TestClassify_MultipleEntriesAndEvents(t *testing.T) {
	env := &Envelope{
		Object: "page",
		Entry: []Entry{
			{ID: "page-1", Messaging: []Messaging{
				{Message: &Message{MID: "m1", Text: "help"}},
				{Read: &Read{Watermark: 1}},
			}},
			{ID: "page-2", Messaging: []Messaging{
				{Postback: &Postback{Payload: "QR_CAPTION_2"}},
			}},
		},
	}

	got := Classify(env)
	if len(got) != 3 {
		t.Fatalf("Classify() returned %d events, want 3", len(got))
	}
	if got[0].Type != EventMessage || got[1].Type != EventRead || got[2].Type != EventPostback {
		t.Errorf("Unexpected classification order: %v %v %v", got[0].Type, got[1].Type, got[2].Type)
	}
	if got[0].Entry.ID != "page-1" || got[2].Entry.ID != "page-2" {
		t.Error("Classified events not paired with their entries")
	}
}

func TestClassify_Idempotent(t *testing.T) {
	raw := `{
		"object": "page",
		"entry": [{
			"id": "123",
			"time": 1700000000000,
			"messaging": [
				{"sender": {"id": "u1"}, "recipient": {"id": "p1"}, "message": {"mid": "m1", "text": "help"}},
				{"sender": {"id": "u1"}, "recipient": {"id": "p1"}, "delivery": {"watermark": 1700000000000}}
			]
		}]
	}`

	var env Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}

	first := Classify(&env)
	second := Classify(&env)
	if !reflect.DeepEqual(first, second) {
		t.Error("Classify() is not idempotent over the same envelope")
	}
}

func TestClassify_UnknownShapeIsTotal(t *testing.T) {
	// A field set the decoder does not know about leaves all variants nil.
	raw := `{
		"object": "page",
		"entry": [{"id": "123", "messaging": [
			{"sender": {"id": "u1"}, "recipient": {"id": "p1"}, "reaction": {"action": "react"}}
		]}]
	}`

	var env Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}

	got := Classify(&env)
	if len(got) != 1 {
		t.Fatalf("Classify() returned %d events, want 1", len(got))
	}
	if got[0].Type != EventUnknown {
		t.Errorf("Classify() type = %v, want EventUnknown", got[0].Type)
	}
}

func TestEventType_String(t *testing.T) {
	tests := []struct {
		eventType EventType
		want      string
	}{
		{EventMessage, "message"},
		{EventPostback, "postback"},
		{EventDelivery, "delivery"},
		{EventRead, "read"},
		{EventAccountLinking, "account_linking"},
		{EventOptin, "optin"},
		{EventUnknown, "unknown"},
		{EventType(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.eventType.String(); got != tt.want {
			t.Errorf("EventType(%d).String() = %q, want %q", tt.eventType, got, tt.want)
		}
	}
}
