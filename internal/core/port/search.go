package port

// FuzzyMatcherPort - нечеткое сравнение слов запроса со значениями
type FuzzyMatcherPort interface {
	// Words разбивает запрос на слова в нижнем регистре
	Words(query string) []string
	// MatchAny - хотя бы одно слово в пределах maxDistance от одного из значений
	MatchAny(words []string, values []string, maxDistance int) bool
}
