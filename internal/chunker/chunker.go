// Package chunker splits extracted text into paragraph-preserving chunks.
package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxChars is used when a non-positive bound is given.
const DefaultMaxChars = 900

const paragraphSeparator = "\n\n"

var paragraphBoundary = regexp.MustCompile(`\n\s*\n`)

// Chunk packs the paragraphs of text greedily into chunks of at most maxChars
// runes. A paragraph is never split, so a single paragraph longer than
// maxChars becomes its own chunk. Blank input yields no chunks.
func Chunk(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	normalized := strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if normalized == "" {
		return nil
	}

	var chunks []string
	var buf string
	for _, part := range paragraphBoundary.Split(normalized, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if buf == "" {
			buf = part
			continue
		}
		candidate := buf + paragraphSeparator + part
		if utf8.RuneCountInString(candidate) > maxChars {
			chunks = append(chunks, strings.TrimSpace(buf))
			buf = part
			continue
		}
		buf = candidate
	}
	if strings.TrimSpace(buf) != "" {
		chunks = append(chunks, strings.TrimSpace(buf))
	}
	return chunks
}

// Paragraphs returns the trimmed, non-empty paragraphs of text in order.
func Paragraphs(text string) []string {
	normalized := strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if normalized == "" {
		return nil
	}
	var out []string
	for _, part := range paragraphBoundary.Split(normalized, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
