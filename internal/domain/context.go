package domain

import (
	"fmt"
	"strings"
)

// TokenCounter measures text in model tokens.
type TokenCounter interface {
	Count(text string) int
}

// FormatRetrievedContext renders results as "[#i | source]\ncontent" blocks
// separated by blank lines. Blocks are added in order until maxTokens would
// be exceeded; the first block is always kept. A nil counter or a
// non-positive budget disables the limit.
func FormatRetrievedContext(results []RetrievalResult, counter TokenCounter, maxTokens int) string {
	var blocks []string
	used := 0
	for i, r := range results {
		block := fmt.Sprintf("[#%d | %s]\n%s", i+1, r.Source, r.Content)
		if counter != nil && maxTokens > 0 {
			cost := counter.Count(block)
			if len(blocks) > 0 && used+cost > maxTokens {
				break
			}
			used += cost
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n")
}
