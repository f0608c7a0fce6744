package messenger

// Reply is a semantic description of one outbound message, produced by the
// menu state machine and rendered to Send API JSON by Build. The closed set
// of implementations makes the text/attachment mutual exclusion rule
// impossible to violate: each variant renders exactly one body shape.
type Reply interface {
	// Kind returns the metric/log label for the reply variant.
	Kind() string
}

// TextReply is a plain text message.
type TextReply struct {
	Text string
}

// QuickReplyPrompt is a text message with tappable quick reply choices.
type QuickReplyPrompt struct {
	Text    string
	Choices []Choice
}

// Choice is one quick reply option.
type Choice struct {
	Title   string
	Payload string
}

// Carousel is a horizontally swipeable generic template.
type Carousel struct {
	Cards []Card
}

// Card is one carousel card.
type Card struct {
	Title    string
	Subtitle string
	ImageURL string
	Buttons  []Button
}

// Button is one postback button on a card.
type Button struct {
	Title   string
	Payload string
}

// Attachment kinds accepted by MediaAttachment.
const (
	MediaImage = "image"
	MediaAudio = "audio"
	MediaVideo = "video"
	MediaFile  = "file"
)

// MediaAttachment is a hosted media message. Kind is one of the Media*
// constants. No text accompanies an attachment; the Send API forbids both.
type MediaAttachment struct {
	MediaKind string
	URL       string

	// Choices, when non-empty, attaches quick replies to the media message.
	Choices []Choice
}

// SenderAction is a typing indicator or read receipt. Action is one of the
// Action* constants.
type SenderAction struct {
	Action string
}

func (TextReply) Kind() string        { return "text" }
func (QuickReplyPrompt) Kind() string { return "quick_reply" }
func (Carousel) Kind() string         { return "carousel" }
func (MediaAttachment) Kind() string  { return "attachment" }
func (SenderAction) Kind() string     { return "sender_action" }
