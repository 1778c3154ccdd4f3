package service

import (
	"strings"
	"unicode"
)

// SlugInfo is what can be read from a course code alone.
type SlugInfo struct {
	Brand       string
	Subject     string
	Grade       string
	GradeTokens []string
}

// ParseSlug splits a course code such as "vtp-algebra-basics-9" into brand,
// subject words and grade tokens.
func ParseSlug(code string) SlugInfo {
	parts := strings.Split(code, "-")
	if len(parts) < 2 {
		return SlugInfo{Brand: code, Subject: "Unknown", Grade: "Unknown"}
	}

	info := SlugInfo{Brand: parts[0]}
	var words []string
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		if isGradeToken(part) {
			info.GradeTokens = append(info.GradeTokens, part)
			continue
		}
		words = append(words, titleWord(part))
	}
	info.Subject = strings.Join(words, " ")
	info.Grade = renderGrade(info.GradeTokens)
	return info
}

// GradeTags renders grade tokens the way catalog entries spell them.
func (i SlugInfo) GradeTags() []string {
	tags := make([]string, 0, len(i.GradeTokens))
	for _, token := range i.GradeTokens {
		switch strings.ToLower(token) {
		case "k":
			tags = append(tags, "Kindergarten")
		case "adult":
			tags = append(tags, "Adult")
		default:
			tags = append(tags, ordinal(token)+" Grade")
		}
	}
	return tags
}

func isGradeToken(part string) bool {
	if part == "k" || part == "K" || part == "adult" {
		return true
	}
	for _, r := range part {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// renderGrade formats the grade tokens as one label, e.g. "Grade 9 10".
func renderGrade(tokens []string) string {
	if len(tokens) == 0 {
		return "All Grades"
	}
	joined := strings.Join(tokens, " ")
	switch {
	case strings.ToLower(joined) == "k":
		return "Kindergarten"
	case joined == "adult":
		return "Adult"
	}
	return "Grade " + joined
}

func titleWord(word string) string {
	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func ordinal(number string) string {
	n := strings.TrimLeft(number, "0")
	if n == "" {
		n = "0"
	}
	suffix := "th"
	last := n[len(n)-1]
	tens := len(n) > 1 && n[len(n)-2] == '1'
	if !tens {
		switch last {
		case '1':
			suffix = "st"
		case '2':
			suffix = "nd"
		case '3':
			suffix = "rd"
		}
	}
	return n + suffix
}
