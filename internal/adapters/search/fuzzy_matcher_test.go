package search_adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWords(t *testing.T) {
	m := NewLevenshteinMatcher()
	assert.Equal(t, []string{"иванов", "пётр"}, m.Words("  Иванов, Пётр "))
	assert.Empty(t, m.Words("   "))
	assert.Equal(t, []string{"12/3"}, m.Words("12/3"))
}

func TestMatchAny(t *testing.T) {
	m := NewLevenshteinMatcher()

	assert.True(t, m.MatchAny(m.Words("иванв"), []string{"Иванов"}, 3))
	assert.True(t, m.MatchAny(m.Words("smith"), []string{"", "Smyth"}, 3))
	assert.False(t, m.MatchAny(m.Words("петров"), []string{"Сидоров"}, 3))
	// номер дома: допускается одна правка
	assert.True(t, m.MatchAny(m.Words("12"), []string{"13"}, 1))
	assert.False(t, m.MatchAny(m.Words("12"), []string{"145"}, 1))
	assert.False(t, m.MatchAny(m.Words("abc"), []string{"   "}, 3))
}
