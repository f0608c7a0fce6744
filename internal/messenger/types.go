// Package messenger implements the Facebook Messenger Platform boundary:
// webhook wire types, event classification, outbound message building, and
// the Graph API send client.
//
// References:
//   - https://developers.facebook.com/docs/messenger-platform/webhooks
//   - https://developers.facebook.com/docs/messenger-platform/reference/send-api
package messenger

// Envelope is the top-level webhook payload. Only Object == "page" carries
// Messenger events; other object kinds are ignored without error.
type Envelope struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry groups the events delivered for one page in one callback.
type Entry struct {
	ID        string      `json:"id"`   // page ID
	Time      int64       `json:"time"` // Unix milliseconds
	Messaging []Messaging `json:"messaging"`
}

// Messaging is one webhook event. Exactly one of the optional event fields
// is populated per occurrence; the platform guarantees mutual exclusion.
type Messaging struct {
	Sender    Principal `json:"sender"`
	Recipient Principal `json:"recipient"`
	Timestamp int64     `json:"timestamp"`

	Message        *Message        `json:"message,omitempty"`
	Postback       *Postback       `json:"postback,omitempty"`
	Delivery       *Delivery       `json:"delivery,omitempty"`
	Read           *Read           `json:"read,omitempty"`
	AccountLinking *AccountLinking `json:"account_linking,omitempty"`
	Optin          *Optin          `json:"optin,omitempty"`
}

// Principal identifies a sender or recipient by page-scoped ID (PSID).
type Principal struct {
	ID string `json:"id"`
}

// Message is a received message event. IsEcho marks messages the page sent
// to the user, which must never be replied to.
type Message struct {
	MID         string       `json:"mid"`
	Text        string       `json:"text,omitempty"`
	IsEcho      bool         `json:"is_echo,omitempty"`
	QuickReply  *QuickReply  `json:"quick_reply,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// QuickReply carries the developer-defined payload echoed back when the
// user taps a quick reply choice.
type QuickReply struct {
	Payload string `json:"payload"`
}

// Attachment is a received media attachment.
type Attachment struct {
	Type    string            `json:"type"` // image, audio, video, file, ...
	Payload AttachmentContent `json:"payload"`
}

// AttachmentContent holds the media URL of a received attachment.
type AttachmentContent struct {
	URL string `json:"url,omitempty"`
}

// Postback is a button tap event carrying a developer-defined payload.
type Postback struct {
	Title   string `json:"title,omitempty"`
	Payload string `json:"payload"`
}

// Delivery confirms delivery of all messages at or before Watermark.
type Delivery struct {
	MIDs      []string `json:"mids,omitempty"`
	Watermark int64    `json:"watermark"`
}

// Read confirms the user read all messages at or before Watermark.
type Read struct {
	Watermark int64 `json:"watermark"`
}

// AccountLinking reports an account link or unlink.
type AccountLinking struct {
	Status            string `json:"status"` // "linked" or "unlinked"
	AuthorizationCode string `json:"authorization_code,omitempty"`
}

// Optin reports a plugin opt-in with its data-ref.
type Optin struct {
	Ref string `json:"ref"`
}

// Send API request/response shapes.

// Sender actions accepted by the Send API.
const (
	ActionMarkSeen  = "mark_seen"
	ActionTypingOn  = "typing_on"
	ActionTypingOff = "typing_off"
)

// SendRequest is the JSON body of one Send API call. Message and
// SenderAction are mutually exclusive: a sender action request carries no
// message body at all.
type SendRequest struct {
	MessagingType string           `json:"messaging_type,omitempty"` // "RESPONSE" for webhook replies
	Recipient     Principal        `json:"recipient"`
	Message       *OutboundMessage `json:"message,omitempty"`
	SenderAction  string           `json:"sender_action,omitempty"`
}

// OutboundMessage is a message body. Text and Attachment are mutually
// exclusive on the wire; the builder only ever sets one.
type OutboundMessage struct {
	Text         string              `json:"text,omitempty"`
	QuickReplies []OutboundQuickReply `json:"quick_replies,omitempty"`
	Attachment   *OutboundAttachment  `json:"attachment,omitempty"`
}

// OutboundQuickReply is one tappable quick reply choice.
type OutboundQuickReply struct {
	ContentType string `json:"content_type"` // always "text" here
	Title       string `json:"title"`
	Payload     string `json:"payload"`
}

// OutboundAttachment is a media attachment or a structured template.
type OutboundAttachment struct {
	Type    string            `json:"type"` // image, audio, video, file, template
	Payload AttachmentPayload `json:"payload"`
}

// AttachmentPayload carries either a media URL or a generic template.
type AttachmentPayload struct {
	URL          string            `json:"url,omitempty"`
	TemplateType string            `json:"template_type,omitempty"` // "generic"
	Elements     []TemplateElement `json:"elements,omitempty"`
}

// TemplateElement is one card of a generic template carousel.
type TemplateElement struct {
	Title    string           `json:"title"`
	Subtitle string           `json:"subtitle,omitempty"`
	ImageURL string           `json:"image_url,omitempty"`
	Buttons  []TemplateButton `json:"buttons,omitempty"`
}

// TemplateButton is one postback button on a template card.
type TemplateButton struct {
	Type    string `json:"type"` // "postback"
	Title   string `json:"title"`
	Payload string `json:"payload"`
}

// SendResponse is the Send API success body.
type SendResponse struct {
	MessageID   string `json:"message_id,omitempty"`
	RecipientID string `json:"recipient_id,omitempty"`
}
