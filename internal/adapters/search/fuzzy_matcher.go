package search_adapter

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LevenshteinMatcher сравнивает слова по расстоянию Левенштейна
type LevenshteinMatcher struct {
	lang language.Tag
}

func NewLevenshteinMatcher() *LevenshteinMatcher {
	return &LevenshteinMatcher{lang: language.Russian}
}

// Caser хранит состояние, поэтому на каждый вызов свой
func (m *LevenshteinMatcher) lower(s string) string {
	return cases.Lower(m.lang).String(s)
}

// Words режет запрос по пробелам и знакам препинания
func (m *LevenshteinMatcher) Words(query string) []string {
	fields := strings.FieldsFunc(query, func(r rune) bool {
		return unicode.IsSpace(r) || (unicode.IsPunct(r) && r != '-' && r != '/')
	})
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		words = append(words, m.lower(f))
	}
	return words
}

func (m *LevenshteinMatcher) MatchAny(words []string, values []string, maxDistance int) bool {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		normalized := m.lower(v)
		for _, w := range words {
			if levenshtein.ComputeDistance(w, normalized) <= maxDistance {
				return true
			}
		}
	}
	return false
}
