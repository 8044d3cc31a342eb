package ai

import "github.com/poiesic/digitalpulse/core"

// ClassifiedOpinion pairs an opinion text with the category the classifier
// assigned to it. Summaries receive these in display order.
type ClassifiedOpinion struct {
	Text     string
	Category core.Category
}
