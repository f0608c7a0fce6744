package messenger

import "fmt"

// Send API shape limits.
// https://developers.facebook.com/docs/messenger-platform/reference/templates/generic
const (
	MaxCarouselCards   = 10
	MaxCardButtons     = 3
	MaxQuickReplies    = 13
	MaxQuickReplyTitle = 20
	MaxCardTitle       = 80
)

// Build renders a semantic reply into a Send API request for recipientID.
// It is a pure structural transform and never fails for well-formed Reply
// values; the error return guards only against a nil or foreign Reply
// implementation.
func Build(recipientID string, reply Reply) (*SendRequest, error) {
	req := &SendRequest{
		MessagingType: "RESPONSE",
		Recipient:     Principal{ID: recipientID},
	}

	switch r := reply.(type) {
	case TextReply:
		req.Message = &OutboundMessage{Text: r.Text}

	case QuickReplyPrompt:
		req.Message = &OutboundMessage{
			Text:         r.Text,
			QuickReplies: buildQuickReplies(r.Choices),
		}

	case Carousel:
		cards := r.Cards
		if len(cards) > MaxCarouselCards {
			cards = cards[:MaxCarouselCards]
		}
		elements := make([]TemplateElement, len(cards))
		for i, card := range cards {
			buttons := card.Buttons
			if len(buttons) > MaxCardButtons {
				buttons = buttons[:MaxCardButtons]
			}
			element := TemplateElement{
				Title:    truncate(card.Title, MaxCardTitle),
				Subtitle: card.Subtitle,
				ImageURL: card.ImageURL,
			}
			for _, b := range buttons {
				element.Buttons = append(element.Buttons, TemplateButton{
					Type:    "postback",
					Title:   b.Title,
					Payload: b.Payload,
				})
			}
			elements[i] = element
		}
		req.Message = &OutboundMessage{
			Attachment: &OutboundAttachment{
				Type: "template",
				Payload: AttachmentPayload{
					TemplateType: "generic",
					Elements:     elements,
				},
			},
		}

	case MediaAttachment:
		// No Text field: an attachment message must not carry text.
		req.Message = &OutboundMessage{
			QuickReplies: buildQuickReplies(r.Choices),
			Attachment: &OutboundAttachment{
				Type:    r.MediaKind,
				Payload: AttachmentPayload{URL: r.URL},
			},
		}

	case SenderAction:
		// Sender actions go out without a message body or messaging type.
		req.MessagingType = ""
		req.SenderAction = r.Action

	default:
		return nil, fmt.Errorf("build: unsupported reply type %T", reply)
	}

	return req, nil
}

func buildQuickReplies(choices []Choice) []OutboundQuickReply {
	if len(choices) == 0 {
		return nil
	}
	if len(choices) > MaxQuickReplies {
		choices = choices[:MaxQuickReplies]
	}
	out := make([]OutboundQuickReply, len(choices))
	for i, c := range choices {
		out[i] = OutboundQuickReply{
			ContentType: "text",
			Title:       truncate(c.Title, MaxQuickReplyTitle),
			Payload:     c.Payload,
		}
	}
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
