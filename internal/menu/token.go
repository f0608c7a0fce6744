package menu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Payload sentinels.
const (
	// PayloadRestart returns the user to the top-level prompt from any step.
	PayloadRestart = "RESTART"

	// PayloadGetStarted is the conventional Messenger get-started postback,
	// accepted as an alias for the top-level prompt.
	PayloadGetStarted = "GET_STARTED"
)

// ErrUnknownToken indicates a payload string that maps to no menu position.
// Callers fall back to the top-level prompt; this is a recovery path, not a
// failure.
var ErrUnknownToken = errors.New("unknown menu token")

const tokenPrefix = "QR_"

// Token is a parsed menu position.
type Token struct {
	Restart bool
	Topic   Topic
	Step    int // 1-based; step 1 is the linear intro state
}

// TopicToken renders the payload token for a topic position, e.g.
// TopicToken(TopicRotation, 1) == "QR_ROTATION_1".
func TopicToken(t Topic, step int) string {
	return fmt.Sprintf("%s%s_%d", tokenPrefix, tokenName(t), step)
}

func tokenName(t Topic) string {
	switch t {
	case TopicRotation:
		return "ROTATION"
	case TopicPhoto:
		return "PHOTO"
	case TopicCaption:
		return "CAPTION"
	case TopicBackground:
		return "BACKGROUND"
	default:
		return "UNKNOWN"
	}
}

// ParseToken maps a payload string to a menu position. RESTART and
// GET_STARTED parse to the restart sentinel. Anything that is not a
// well-formed topic token yields ErrUnknownToken.
func ParseToken(payload string) (Token, error) {
	s := strings.TrimSpace(payload)
	if s == PayloadRestart || s == PayloadGetStarted {
		return Token{Restart: true}, nil
	}

	rest, ok := strings.CutPrefix(s, tokenPrefix)
	if !ok {
		return Token{}, fmt.Errorf("%w: %q", ErrUnknownToken, payload)
	}

	name, stepStr, ok := strings.Cut(rest, "_")
	if !ok {
		return Token{}, fmt.Errorf("%w: %q", ErrUnknownToken, payload)
	}

	var topic Topic
	switch name {
	case "ROTATION":
		topic = TopicRotation
	case "PHOTO":
		topic = TopicPhoto
	case "CAPTION":
		topic = TopicCaption
	case "BACKGROUND":
		topic = TopicBackground
	default:
		return Token{}, fmt.Errorf("%w: %q", ErrUnknownToken, payload)
	}

	step, err := strconv.Atoi(stepStr)
	if err != nil || step < 1 {
		return Token{}, fmt.Errorf("%w: %q", ErrUnknownToken, payload)
	}

	return Token{Topic: topic, Step: step}, nil
}
