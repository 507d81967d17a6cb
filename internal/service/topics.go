package service

import (
	"regexp"
	"sort"
	"strings"

	"rag-tutor/internal/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	unitPattern   = regexp.MustCompile(`(?i)unit\s*(\d+)`)
	partPattern   = regexp.MustCompile(`(?i)part\s*(\d+)`)
	pastedPattern = regexp.MustCompile(`(?i)\(pasted.*$`)
)

// DeriveTopic maps a chunk source label onto the topic it belongs to.
// "Unit N" wins over "Part N"; anything else is the label minus a trailing
// "(pasted ...)" note.
func DeriveTopic(source string) domain.Topic {
	if m := unitPattern.FindStringSubmatch(source); m != nil {
		label := "Unit " + m[1]
		return domain.Topic{Key: strings.ToLower(label), Label: label}
	}
	if m := partPattern.FindStringSubmatch(source); m != nil {
		label := "Part " + m[1]
		return domain.Topic{Key: strings.ToLower(label), Label: label}
	}
	label := strings.TrimSpace(pastedPattern.ReplaceAllString(source, ""))
	return domain.Topic{Key: strings.ToLower(label), Label: label}
}

// DeriveTopics dedupes sources by topic key, keeping the first label seen,
// and orders the result by Malay collation of the labels.
func DeriveTopics(sources []string) []domain.Topic {
	seen := make(map[string]struct{}, len(sources))
	topics := make([]domain.Topic, 0, len(sources))
	for _, src := range sources {
		if strings.TrimSpace(src) == "" {
			continue
		}
		t := DeriveTopic(src)
		if t.Key == "" {
			continue
		}
		if _, ok := seen[t.Key]; ok {
			continue
		}
		seen[t.Key] = struct{}{}
		topics = append(topics, t)
	}

	// A Collator is not safe for concurrent use.
	c := collate.New(language.Malay)
	sort.SliceStable(topics, func(i, j int) bool {
		return c.CompareString(topics[i].Label, topics[j].Label) < 0
	})
	return topics
}
