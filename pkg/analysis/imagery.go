package analysis

import (
	"strings"

	"github.com/matzehuels/framespec/pkg/figma"
)

// ImagePriority grades how much an image matters to the design's intent.
type ImagePriority string

// Image priorities. The zero value means unclassified.
const (
	PriorityCritical ImagePriority = "critical"
	PriorityHigh     ImagePriority = "high"
)

// ImageClassification is the verdict on one image node.
//
// Critical images are photographs of people: they must keep faces in frame
// (CropAnchor) and must never be hidden at any viewport size, because a
// testimonial with its photo removed stops being a testimonial.
type ImageClassification struct {
	Priority   ImagePriority `json:"priority,omitempty"`
	CropAnchor string        `json:"crop_anchor,omitempty"`
	NeverHide  bool          `json:"never_hide,omitempty"`
	Reason     string        `json:"reason,omitempty"`
}

var personKeywords = []string{"person", "portrait", "team", "testimonial"}

var productKeywords = []string{"product", "feature", "mockup"}

// ClassifyImage grades an image node by name and by the share of its
// section it covers. sectionArea may be zero when unknown.
func ClassifyImage(node *figma.Node, sectionArea float64, t Thresholds) ImageClassification {
	name := strings.ToLower(node.Name)

	for _, kw := range personKeywords {
		if strings.Contains(name, kw) {
			return ImageClassification{
				Priority:   PriorityCritical,
				CropAnchor: "top center",
				NeverHide:  true,
				Reason:     "depicts a person",
			}
		}
	}

	if sectionArea > 0 {
		if node.Bounds().Area()/sectionArea > t.ImageAreaRatio {
			return ImageClassification{
				Priority: PriorityHigh,
				Reason:   "covers a large share of its section",
			}
		}
	}

	for _, kw := range productKeywords {
		if strings.Contains(name, kw) {
			return ImageClassification{
				Priority: PriorityHigh,
				Reason:   "shows the product",
			}
		}
	}

	return ImageClassification{}
}
