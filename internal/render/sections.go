package render

import "strings"

// Bucket is a named group of notes lines in the sections layout.
type Bucket int

const (
	BucketSummary Bucket = iota
	BucketNotes
	BucketKeyTopics
	BucketReferences
	BucketQuestions
	BucketRevision
)

var bucketOrder = []Bucket{BucketSummary, BucketNotes, BucketKeyTopics, BucketReferences, BucketQuestions, BucketRevision}

type bucketStyle struct {
	title    string
	keywords []string
	accent   [3]int
}

var bucketStyles = map[Bucket]bucketStyle{
	BucketSummary:    {title: "Summary", keywords: []string{"summary", "overview"}, accent: [3]int{31, 78, 121}},
	BucketNotes:      {title: "Detailed Notes", keywords: []string{"detailed notes", "notes", "explanation"}, accent: [3]int{46, 117, 82}},
	BucketKeyTopics:  {title: "Key Topics", keywords: []string{"keyword", "key topic", "key term", "key concept"}, accent: [3]int{156, 87, 0}},
	BucketReferences: {title: "References", keywords: []string{"reference", "further reading", "resources"}, accent: [3]int{94, 53, 177}},
	BucketQuestions:  {title: "Questions", keywords: []string{"question", "mcq", "quiz", "exercise"}, accent: [3]int{183, 28, 28}},
	BucketRevision:   {title: "Revision", keywords: []string{"revision", "recap", "quick review"}, accent: [3]int{0, 121, 107}},
}

func (b Bucket) String() string { return bucketStyles[b].title }

// matchBucket checks a heading against bucket keywords. The order below resolves
// headings such as "Short answer questions" before the generic notes keywords.
func matchBucket(heading string) (Bucket, bool) {
	h := strings.ToLower(heading)
	for _, b := range []Bucket{BucketSummary, BucketKeyTopics, BucketReferences, BucketQuestions, BucketRevision, BucketNotes} {
		for _, kw := range bucketStyles[b].keywords {
			if strings.Contains(h, kw) {
				return b, true
			}
		}
	}
	return 0, false
}

// Section is one bucket and the lines collected into it.
type Section struct {
	Bucket Bucket
	Lines  []Line
}

// Group buckets lines in a single forward pass. The current bucket switches only on
// a heading that matches a bucket keyword; lines before the first match go to notes.
// A switching heading becomes the block title. Headings matching the bucket already
// open (e.g. "Short answer questions" under questions) stay as sub-headings.
func Group(lines []Line) []Section {
	collected := make(map[Bucket][]Line)
	opened := make(map[Bucket]bool)
	current := BucketNotes

	for _, line := range lines {
		if line.Kind == KindHeading {
			if b, ok := matchBucket(line.Text); ok && (b != current || !opened[b]) {
				current = b
				opened[b] = true
				continue
			}
		}
		collected[current] = append(collected[current], line)
	}

	sections := make([]Section, 0, len(bucketOrder))
	for _, b := range bucketOrder {
		if len(collected[b]) > 0 {
			sections = append(sections, Section{Bucket: b, Lines: collected[b]})
		}
	}
	return sections
}
