package ai

import (
	"fmt"
	"strings"
)

const classificationPromptTemplate = `Classify the following text into one of these categories:
- Claim: A statement that supports a position
- Counterclaim: A statement that counters another claim or presents an opposing reason
- Rebuttal: A statement that counters a counterclaim
- Evidence: Ideas or examples that support claims, counterclaims, or rebuttals

Text to classify: "%s"

Return ONLY the classification name (Claim, Counterclaim, Rebuttal, or Evidence) without any explanations.`

const conclusionPromptHeader = `I'm analyzing a topic and related opinions from social media. Based on the topic and the various opinions, generate a concise conclusion that summarizes the overall sentiment and key points.

Topic: %s

Opinions:
`

const conclusionPromptFooter = `
Please create a concise conclusion that:
1. Summarizes the overall sentiment or consensus
2. Acknowledges different perspectives if they exist
3. Highlights the most significant points
4. Is written in a neutral, analytical tone
5. Is approximately 2-3 sentences long

Format your response as just the conclusion without any additional explanations.`

// BuildClassificationPrompt returns the prompt asking the model to label text
// with one of the four rhetorical categories.
func BuildClassificationPrompt(text string) string {
	return fmt.Sprintf(classificationPromptTemplate, text)
}

// BuildConclusionPrompt returns the summarization prompt. Each opinion appears
// on its own line as "<Category>: <text>" in the order given.
func BuildConclusionPrompt(topic string, opinions []ClassifiedOpinion) string {
	var b strings.Builder
	fmt.Fprintf(&b, conclusionPromptHeader, topic)
	for _, o := range opinions {
		fmt.Fprintf(&b, "%s: %s\n", o.Category, o.Text)
	}
	b.WriteString(conclusionPromptFooter)
	return b.String()
}
