package menu

import (
	"errors"
	"testing"
)

func TestParseToken_Valid(t *testing.T) {
	tests := []struct {
		payload string
		topic   Topic
		step    int
	}{
		{"QR_ROTATION_1", TopicRotation, 1},
		{"QR_ROTATION_2", TopicRotation, 2},
		{"QR_PHOTO_3", TopicPhoto, 3},
		{"QR_CAPTION_4", TopicCaption, 4},
		{"QR_BACKGROUND_6", TopicBackground, 6},
		{"  QR_PHOTO_1  ", TopicPhoto, 1}, // surrounding whitespace tolerated
	}

	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			tok, err := ParseToken(tt.payload)
			if err != nil {
				t.Fatalf("ParseToken(%q) error = %v", tt.payload, err)
			}
			if tok.Restart {
				t.Error("Expected non-restart token")
			}
			if tok.Topic != tt.topic || tok.Step != tt.step {
				t.Errorf("ParseToken(%q) = {%v %d}, want {%v %d}", tt.payload, tok.Topic, tok.Step, tt.topic, tt.step)
			}
		})
	}
}

func TestParseToken_Sentinels(t *testing.T) {
	for _, payload := range []string{"RESTART", "GET_STARTED"} {
		tok, err := ParseToken(payload)
		if err != nil {
			t.Fatalf("ParseToken(%q) error = %v", payload, err)
		}
		if !tok.Restart {
			t.Errorf("ParseToken(%q).Restart = false, want true", payload)
		}
	}
}

func TestParseToken_Unknown(t *testing.T) {
	tests := []string{
		"",
		"hello",
		"QR_",
		"QR_ROTATION",
		"QR_ROTATION_",
		"QR_ROTATION_0",
		"QR_ROTATION_-1",
		"QR_ROTATION_one",
		"QR_FILTERS_1",
		"restart", // sentinels are case-sensitive
		"XX_ROTATION_1",
	}

	for _, payload := range tests {
		t.Run(payload, func(t *testing.T) {
			_, err := ParseToken(payload)
			if !errors.Is(err, ErrUnknownToken) {
				t.Errorf("ParseToken(%q) = %v, want ErrUnknownToken", payload, err)
			}
		})
	}
}

func TestTopicToken_RoundTrip(t *testing.T) {
	for _, topic := range Topics {
		for step := 1; step <= 6; step++ {
			payload := TopicToken(topic, step)
			tok, err := ParseToken(payload)
			if err != nil {
				t.Fatalf("ParseToken(TopicToken(%v, %d)) error = %v", topic, step, err)
			}
			if tok.Topic != topic || tok.Step != step {
				t.Errorf("Round trip of (%v, %d) via %q gave (%v, %d)", topic, step, payload, tok.Topic, tok.Step)
			}
		}
	}
}

func TestTopicToken_Spelling(t *testing.T) {
	if got := TopicToken(TopicRotation, 1); got != "QR_ROTATION_1" {
		t.Errorf("TopicToken = %q, want QR_ROTATION_1", got)
	}
	if got := TopicToken(TopicBackground, 3); got != "QR_BACKGROUND_3" {
		t.Errorf("TopicToken = %q, want QR_BACKGROUND_3", got)
	}
}
