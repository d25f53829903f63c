package render

import (
	"regexp"
	"strings"
)

// LineKind classifies one normalized markdown line.
type LineKind int

const (
	KindBody LineKind = iota
	KindHeading
	KindBullet
	KindNumbered
)

func (k LineKind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindBullet:
		return "bullet"
	case KindNumbered:
		return "numbered"
	default:
		return "body"
	}
}

// Line is a classified line with markdown syntax removed from Text.
type Line struct {
	Kind  LineKind
	Level int
	Text  string
	// Number keeps the list marker ("3.") of numbered lines.
	Number string
}

var (
	reHTMLTag    = regexp.MustCompile(`<[^>]*>`)
	reHeading    = regexp.MustCompile(`^(#{1,6})\s*(.+)$`)
	reBoldLine   = regexp.MustCompile(`^\*\*([^*]+)\*\*:?$`)
	reBullet     = regexp.MustCompile(`^[-*•]\s+(.+)$`)
	reNumbered   = regexp.MustCompile(`^(\d+\.)\s+(.+)$`)
	reBold       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reUnderBold  = regexp.MustCompile(`__(.+?)__`)
	reItalic     = regexp.MustCompile(`\*([^*\s][^*]*?)\*`)
	reLink       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	reHorizontal = regexp.MustCompile(`^([-*_]\s*){3,}$`)
)

// Parse normalizes markdown and classifies each non-blank line.
// Precedence: heading, then bullet, then numbered, then body.
func Parse(markdown string) []Line {
	markdown = strings.ReplaceAll(markdown, "\r\n", "\n")
	markdown = reHTMLTag.ReplaceAllString(markdown, "")

	var lines []Line
	inFence := false
	for _, raw := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if trimmed == "" || reHorizontal.MatchString(trimmed) {
			continue
		}
		if inFence {
			lines = append(lines, Line{Kind: KindBody, Text: strings.ReplaceAll(trimmed, "`", "")})
			continue
		}

		line := Classify(trimmed)
		if line.Text == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Classify assigns a kind to a single trimmed line.
func Classify(line string) Line {
	if m := reHeading.FindStringSubmatch(line); m != nil {
		return Line{Kind: KindHeading, Level: len(m[1]), Text: cleanInline(m[2])}
	}
	if m := reBoldLine.FindStringSubmatch(line); m != nil {
		return Line{Kind: KindHeading, Level: 3, Text: cleanInline(m[1])}
	}
	if m := reBullet.FindStringSubmatch(line); m != nil {
		return Line{Kind: KindBullet, Text: cleanInline(m[1])}
	}
	if m := reNumbered.FindStringSubmatch(line); m != nil {
		return Line{Kind: KindNumbered, Number: m[1], Text: cleanInline(m[2])}
	}
	return Line{Kind: KindBody, Text: cleanInline(line)}
}

func cleanInline(s string) string {
	s = reLink.ReplaceAllString(s, "$1 ($2)")
	s = reBold.ReplaceAllString(s, "$1")
	s = reUnderBold.ReplaceAllString(s, "$1")
	s = reItalic.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "`", "")
	s = strings.TrimRight(s, " #")
	return strings.TrimSpace(s)
}
