package notes

import (
	"fmt"
	"strings"
)

const noneMarker = "(none)"

const instructionBlock = `You are an expert teaching assistant. Using the lecture transcript and the text captured from the lecture slides below, write structured study notes in markdown.

The notes must contain these sections, each introduced by a markdown heading:
# Summary
A concise summary of the whole lecture.
# Detailed Notes
Detailed notes following the order of the lecture, with sub-headings and bullet points.
# Keywords
Between 5 and 10 key terms, each with a one line explanation.
# References
Books, papers, links or names mentioned in the lecture. Write "None mentioned" if there are none.
# Questions
3 to 5 multiple choice questions with four options and the answer marked.
3 to 5 short answer questions.
3 to 5 long answer questions.
# Revision
Exactly 5 bullet points for quick revision.

Use only the information given. Keep technical terms as they appear.`

const contentBlock = `Lecture transcript:
---
%s
---

Slide text:
---
%s
---`

// BuildPrompt combines the fixed instructions with the lecture content. Empty inputs are marked "(none)".
func BuildPrompt(transcript, visualText string) string {
	return instructionBlock + "\n\n" + fmt.Sprintf(contentBlock, orNone(transcript), orNone(visualText))
}

func orNone(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return noneMarker
	}
	return s
}
