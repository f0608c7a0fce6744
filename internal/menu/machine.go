package menu

import (
	"fmt"
	"strings"

	"github.com/snapframe/helpbot-go/internal/logger"
	"github.com/snapframe/helpbot-go/internal/messenger"
	"github.com/snapframe/helpbot-go/internal/metrics"
)

// Mode selects the navigation strategy. A deployment picks one mode at
// startup; it never changes per request.
type Mode int

const (
	// ModeLinear walks a topic one step per interaction with
	// restart/continue quick replies.
	ModeLinear Mode = iota

	// ModeBranching shows a whole topic as one carousel whose cards link
	// to every other topic.
	ModeBranching
)

// String returns the mode's configuration spelling.
func (m Mode) String() string {
	if m == ModeBranching {
		return "branching"
	}
	return "linear"
}

// ParseMode maps a configuration string onto a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear":
		return ModeLinear, nil
	case "branching":
		return ModeBranching, nil
	default:
		return ModeLinear, fmt.Errorf("unknown menu mode %q", s)
	}
}

// promptText is the top-level prompt shown when entering the menu and on
// every fallback path.
const promptText = "Select a feature to learn more."

// Quick reply labels for the linear walk.
const (
	labelRestart  = "Restart"
	labelContinue = "Continue"
	labelExplore  = "Explore another feature"
)

// Machine maps payload tokens to replies over the topic catalog. It holds
// no conversational state: the token the client echoes back is the state.
type Machine struct {
	mode    Mode
	catalog *Catalog
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewMachine creates a menu state machine in the given mode.
func NewMachine(mode Mode, catalog *Catalog, m *metrics.Metrics, log *logger.Logger) *Machine {
	return &Machine{
		mode:    mode,
		catalog: catalog,
		metrics: m,
		logger:  log.WithModule("menu"),
	}
}

// Mode returns the configured navigation mode.
func (m *Machine) Mode() Mode {
	return m.mode
}

// Prompt returns the top-level four-topic prompt.
func (m *Machine) Prompt() messenger.QuickReplyPrompt {
	choices := make([]messenger.Choice, 0, len(Topics))
	for _, t := range Topics {
		choices = append(choices, messenger.Choice{
			Title:   m.catalog.Guide(t).Title,
			Payload: TopicToken(t, 1),
		})
	}
	return messenger.QuickReplyPrompt{Text: promptText, Choices: choices}
}

// ReplyToText maps free text to a reply. The known commands and any other
// text both lead to the top-level prompt; only the latter counts as a
// fallback.
func (m *Machine) ReplyToText(text string) []messenger.Reply {
	if !IsCommand(text) {
		m.metrics.RecordMenuFallback("free_text")
		m.logger.WithField("text_length", len(text)).Debug("Free text, sending top-level prompt")
	}
	return []messenger.Reply{m.Prompt()}
}

// IsCommand reports whether text is one of the literal menu commands.
func IsCommand(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "help", "menu", "start", "get started":
		return true
	default:
		return false
	}
}

// ReplyToPayload maps a quick-reply or postback payload token to the next
// reply. Unknown tokens fall back to the top-level prompt; a degenerate
// branching carousel is dropped entirely (empty return).
func (m *Machine) ReplyToPayload(payload string) []messenger.Reply {
	tok, err := ParseToken(payload)
	if err != nil {
		m.metrics.RecordMenuFallback("unknown_token")
		m.logger.WithField("payload", payload).Warn("Unknown menu token, sending top-level prompt")
		return []messenger.Reply{m.Prompt()}
	}

	if tok.Restart {
		m.metrics.RecordMenuFallback("restart")
		return []messenger.Reply{m.Prompt()}
	}

	if m.mode == ModeBranching {
		return m.branchingReply(tok.Topic)
	}
	return m.linearReply(tok)
}

// linearReply advances the guided tour one state. Token step 1 is the
// intro; steps 2..N+1 carry the N step images; the last image drops the
// continue choice.
func (m *Machine) linearReply(tok Token) []messenger.Reply {
	guide := m.catalog.Guide(tok.Topic)
	last := len(guide.Steps) + 1

	switch {
	case tok.Step == 1:
		m.metrics.RecordMenuReply(tok.Topic.String(), m.mode.String())
		return []messenger.Reply{messenger.QuickReplyPrompt{
			Text: guide.Intro,
			Choices: []messenger.Choice{
				{Title: labelRestart, Payload: PayloadRestart},
				{Title: labelContinue, Payload: TopicToken(tok.Topic, 2)},
			},
		}}

	case tok.Step < last:
		m.metrics.RecordMenuReply(tok.Topic.String(), m.mode.String())
		return []messenger.Reply{messenger.MediaAttachment{
			MediaKind: messenger.MediaImage,
			URL:       m.catalog.ImageURL(tok.Topic, tok.Step-1),
			Choices: []messenger.Choice{
				{Title: labelRestart, Payload: PayloadRestart},
				{Title: labelContinue, Payload: TopicToken(tok.Topic, tok.Step+1)},
			},
		}}

	case tok.Step == last:
		// Terminal state: no continue choice.
		m.metrics.RecordMenuReply(tok.Topic.String(), m.mode.String())
		return []messenger.Reply{messenger.MediaAttachment{
			MediaKind: messenger.MediaImage,
			URL:       m.catalog.ImageURL(tok.Topic, tok.Step-1),
			Choices: []messenger.Choice{
				{Title: labelExplore, Payload: PayloadRestart},
			},
		}}

	default:
		// Past the end of the tour: treat like an unknown token.
		m.metrics.RecordMenuFallback("unknown_token")
		m.logger.WithField("topic", tok.Topic.String()).
			WithField("step", tok.Step).
			Warn("Step past end of guide, sending top-level prompt")
		return []messenger.Reply{m.Prompt()}
	}
}

// branchingReply shows the whole topic as one carousel. Every card carries
// the same button row linking to the other three topics.
func (m *Machine) branchingReply(topic Topic) []messenger.Reply {
	guide := m.catalog.Guide(topic)

	// The generic template requires at least two cards; a thinner guide is
	// a configuration error and the reply is dropped rather than sent.
	if len(guide.Steps) < 2 {
		m.metrics.RecordMenuFallback("degenerate_carousel")
		m.logger.WithField("topic", topic.String()).
			WithField("steps", len(guide.Steps)).
			Error("Guide has fewer than 2 steps, dropping carousel")
		return nil
	}

	buttons := make([]messenger.Button, 0, len(Topics)-1)
	for _, other := range Topics {
		if other == topic {
			continue
		}
		buttons = append(buttons, messenger.Button{
			Title:   m.catalog.Guide(other).Title,
			Payload: TopicToken(other, 1),
		})
	}

	cards := make([]messenger.Card, len(guide.Steps))
	for i, step := range guide.Steps {
		cards[i] = messenger.Card{
			Title:    guide.Title,
			Subtitle: step.Subtitle,
			ImageURL: m.catalog.ImageURL(topic, i+1),
			Buttons:  buttons,
		}
	}

	m.metrics.RecordMenuReply(topic.String(), m.mode.String())
	return []messenger.Reply{messenger.Carousel{Cards: cards}}
}
