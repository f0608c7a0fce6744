// Package menu implements the conversational help menu: a fixed catalog of
// four feature guides and a state machine that maps quick-reply/postback
// payload tokens to the next reply. All menu position lives in the payload
// token the user's client echoes back; the server keeps no state.
package menu

import "fmt"

// Topic identifies one of the four help subjects. The set is closed;
// there are no dynamic topics.
type Topic int

const (
	TopicRotation Topic = iota
	TopicPhoto
	TopicCaption
	TopicBackground
)

// Topics lists all topics in presentation order.
var Topics = [...]Topic{TopicRotation, TopicPhoto, TopicCaption, TopicBackground}

// String returns the lowercase topic name used in logs and metrics.
func (t Topic) String() string {
	switch t {
	case TopicRotation:
		return "rotation"
	case TopicPhoto:
		return "photo"
	case TopicCaption:
		return "caption"
	case TopicBackground:
		return "background"
	default:
		return "unknown"
	}
}

// Step is one illustrated step of a guide.
type Step struct {
	Subtitle string
	Image    string // filename under the asset base URL
}

// Guide is the full content of one topic.
type Guide struct {
	Title string
	Intro string
	Steps []Step
}

// Catalog holds the guide content for all four topics and resolves step
// image URLs against the configured asset base.
type Catalog struct {
	assetBaseURL string
	guides       map[Topic]Guide
}

// NewCatalog creates the catalog with images served under assetBaseURL.
func NewCatalog(assetBaseURL string) *Catalog {
	return &Catalog{
		assetBaseURL: assetBaseURL,
		guides: map[Topic]Guide{
			TopicRotation: {
				Title: "Rotation",
				Intro: "Rotation spins your photo into any orientation. Here is how it works.",
				Steps: []Step{
					{Subtitle: "Tap the rotate icon to turn your photo a quarter turn.", Image: "rotation_1.jpg"},
					{Subtitle: "Keep tapping to cycle through all four orientations.", Image: "rotation_2.jpg"},
				},
			},
			TopicPhoto: {
				Title: "Photo",
				Intro: "Swap in any photo from your library or camera. Here is how it works.",
				Steps: []Step{
					{Subtitle: "Tap the photo area to open your camera roll.", Image: "photo_1.jpg"},
					{Subtitle: "Pick a shot, or take a new one with the camera.", Image: "photo_2.jpg"},
					{Subtitle: "Pinch to zoom and drag to reframe it.", Image: "photo_3.jpg"},
				},
			},
			TopicCaption: {
				Title: "Caption",
				Intro: "Captions put your words on the frame. Here is how it works.",
				Steps: []Step{
					{Subtitle: "Tap the caption bar under your photo.", Image: "caption_1.jpg"},
					{Subtitle: "Type the text you want on the frame.", Image: "caption_2.jpg"},
					{Subtitle: "Swipe the style strip to pick a typeface.", Image: "caption_3.jpg"},
					{Subtitle: "Drag the caption to sit where you like.", Image: "caption_4.jpg"},
				},
			},
			TopicBackground: {
				Title: "Background Color",
				Intro: "Background Color recolors the frame around your photo. Here is how it works.",
				Steps: []Step{
					{Subtitle: "Tap the palette icon in the toolbar.", Image: "background_1.jpg"},
					{Subtitle: "Choose a base color swatch.", Image: "background_2.jpg"},
					{Subtitle: "Slide to fine-tune the shade.", Image: "background_3.jpg"},
					{Subtitle: "Tap apply to recolor the frame.", Image: "background_4.jpg"},
					{Subtitle: "Save or share the finished frame.", Image: "background_5.jpg"},
				},
			},
		},
	}
}

// Guide returns the content of one topic.
func (c *Catalog) Guide(t Topic) Guide {
	return c.guides[t]
}

// ImageURL resolves the full URL of a guide's step image. step is 1-based.
func (c *Catalog) ImageURL(t Topic, step int) string {
	guide := c.guides[t]
	if step < 1 || step > len(guide.Steps) {
		return ""
	}
	return fmt.Sprintf("%s/%s", c.assetBaseURL, guide.Steps[step-1].Image)
}
