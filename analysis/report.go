package analysis

import (
	"fmt"
	"io"

	"github.com/poiesic/digitalpulse/core"
)

// User-facing messages for runs that end before classification.
const (
	MsgNoOpinions   = "No opinions in the dataset. Add some opinions first."
	MsgNoMatches    = "No related opinions found. Add more opinions to the dataset."
	MsgNoConclusion = "No existing conclusion found for this topic."
)

// RelatedOpinion is one ranked, classified match.
type RelatedOpinion struct {
	Rank     int           `json:"rank"`
	ID       string        `json:"id"`
	Text     string        `json:"text"`
	Score    float64       `json:"score"`
	Index    int           `json:"index"`
	Category core.Category `json:"category"`
}

// Report is the outcome of one analysis.
type Report struct {
	Topic    string           `json:"topic"`
	TopicKey string           `json:"topic_key,omitempty"`
	Related  []RelatedOpinion `json:"related"`

	// Conclusion is the newly generated summary, empty when nothing matched.
	Conclusion string `json:"conclusion,omitempty"`

	// Existing is the stored conclusion for a topic analysis, if one exists.
	Existing *core.Conclusion `json:"existing,omitempty"`

	SavedConclusionID string `json:"saved_conclusion_id,omitempty"`

	NoOpinions bool `json:"no_opinions,omitempty"`
	NoMatches  bool `json:"no_matches,omitempty"`
}

// Message returns the informational message for an early exit, or "".
func (r *Report) Message() string {
	switch {
	case r.NoOpinions:
		return MsgNoOpinions
	case r.NoMatches:
		return MsgNoMatches
	}
	return ""
}

// Render writes the report as plain text.
func (r *Report) Render(w io.Writer) error {
	p := &printer{w: w}

	p.println("Topic:")
	p.println(r.Topic)

	if msg := r.Message(); msg != "" {
		p.println(msg)
	} else {
		p.println()
		p.println("Related Opinions:")
		for _, o := range r.Related {
			p.printf("Related Opinion %d (%s)- %s\n", o.Rank, o.Category, o.Text)
		}
		p.println()
		p.println("Conclusion")
		p.printf("Conclusion- %s\n", r.Conclusion)
	}

	if r.TopicKey != "" && !r.NoOpinions {
		p.println()
		if r.Existing != nil {
			p.println("Existing Conclusion")
			p.printf("Conclusion- %s\n", r.Existing.Text)
		} else {
			p.println(MsgNoConclusion)
		}
	}

	if r.SavedConclusionID != "" {
		p.printf("Saved conclusion %s\n", r.SavedConclusionID)
	}
	return p.err
}

// printer remembers the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
	}
}

func (p *printer) println(args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintln(p.w, args...)
	}
}
