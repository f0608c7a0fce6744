package messenger

// EventType tags a webhook event with its kind.
type EventType int

// Event kinds in classification priority order. When an event object
// somehow populates several variants, the first matching field wins:
// message > postback > delivery > read > account_linking > optin.
const (
	EventUnknown EventType = iota
	EventMessage
	EventPostback
	EventDelivery
	EventRead
	EventAccountLinking
	EventOptin
)

// String returns the metric/log label for the event type.
func (t EventType) String() string {
	switch t {
	case EventMessage:
		return "message"
	case EventPostback:
		return "postback"
	case EventDelivery:
		return "delivery"
	case EventRead:
		return "read"
	case EventAccountLinking:
		return "account_linking"
	case EventOptin:
		return "optin"
	default:
		return "unknown"
	}
}

// ClassifiedEvent pairs one webhook event with its entry and kind.
type ClassifiedEvent struct {
	Entry *Entry
	Event *Messaging
	Type  EventType
}

// Classify flattens an envelope into tagged events. It is a pure, total
// function: envelopes whose object kind is not "page" yield nil, and an
// event object matching no known variant is tagged EventUnknown rather
// than rejected.
func Classify(env *Envelope) []ClassifiedEvent {
	if env == nil || env.Object != "page" {
		return nil
	}

	var out []ClassifiedEvent
	for i := range env.Entry {
		entry := &env.Entry[i]
		for j := range entry.Messaging {
			event := &entry.Messaging[j]
			out = append(out, ClassifiedEvent{
				Entry: entry,
				Event: event,
				Type:  classifyOne(event),
			})
		}
	}
	return out
}

func classifyOne(event *Messaging) EventType {
	switch {
	case event.Message != nil:
		return EventMessage
	case event.Postback != nil:
		return EventPostback
	case event.Delivery != nil:
		return EventDelivery
	case event.Read != nil:
		return EventRead
	case event.AccountLinking != nil:
		return EventAccountLinking
	case event.Optin != nil:
		return EventOptin
	default:
		return EventUnknown
	}
}
