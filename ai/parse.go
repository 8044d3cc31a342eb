package ai

import (
	"strings"

	"github.com/poiesic/digitalpulse/core"
)

// ParseCategoryReply interprets a raw classifier reply.
//
// Resolution order:
//  1. the trimmed reply equals a label exactly
//  2. the first label, in core.Categories order, found anywhere in the reply
//  3. core.DefaultCategory
//
// Matching is case sensitive, so "Counterclaim" never matches the "Claim" label.
func ParseCategoryReply(reply string) core.Category {
	trimmed := strings.TrimSpace(reply)
	for _, c := range core.Categories() {
		if trimmed == string(c) {
			return c
		}
	}
	for _, c := range core.Categories() {
		if strings.Contains(trimmed, string(c)) {
			return c
		}
	}
	return core.DefaultCategory
}
