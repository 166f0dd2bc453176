package main

import (
	"sort"
	"strings"

	"github.com/lightspeed-ai/lightspeed/shared/events"
)

// stopwords excluded from matching. Mostly YAML scaffolding and glue words
// that would inflate every score.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "name": {},
	"hosts": {}, "tasks": {}, "become": {}, "state": {}, "yes": {},
	"true": {}, "false": {}, "all": {}, "ansible": {}, "builtin": {},
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) < 3 {
			continue
		}
		if _, skip := stopwords[f]; skip {
			continue
		}
		out = append(out, f)
	}
	return out
}

// matchContent scores how much of the user's prompt the generated content
// reflects: the fraction of distinct prompt terms that appear in the
// content, with one attribution per shared term.
func matchContent(prompt, content string) (float64, []events.ContentMatchAttribution) {
	promptTerms := map[string]struct{}{}
	for _, t := range tokenize(prompt) {
		promptTerms[t] = struct{}{}
	}
	if len(promptTerms) == 0 {
		return 0, nil
	}

	contentCounts := map[string]int{}
	total := 0
	for _, t := range tokenize(content) {
		contentCounts[t]++
		total++
	}

	var attrs []events.ContentMatchAttribution
	matched := 0
	for term := range promptTerms {
		count := contentCounts[term]
		if count == 0 {
			continue
		}
		matched++
		attrs = append(attrs, events.ContentMatchAttribution{
			Term:  term,
			Count: count,
			Score: float64(count) / float64(total),
		})
	}

	sort.Slice(attrs, func(i, j int) bool {
		if attrs[i].Count != attrs[j].Count {
			return attrs[i].Count > attrs[j].Count
		}
		return attrs[i].Term < attrs[j].Term
	})

	return float64(matched) / float64(len(promptTerms)), attrs
}
