package domain

// Number - допустимые типы границ диапазона
type Number interface {
	~int | ~int64 | ~float64
}

// Range - диапазон с необязательными границами. nil означает "без ограничения".
type Range[T Number] struct {
	Min *T
	Max *T
}

// Valid - min <= max, если заданы обе границы
func (r Range[T]) Valid() bool {
	return r.Min == nil || r.Max == nil || *r.Min <= *r.Max
}

// IsSet - задана хотя бы одна граница
func (r Range[T]) IsSet() bool {
	return r.Min != nil || r.Max != nil
}

// Contains проверяет значение объекта. Неизвестное значение при заданной
// границе не проходит: доказать соответствие нельзя.
func (r Range[T]) Contains(v *T) bool {
	if !r.IsSet() {
		return true
	}
	if v == nil {
		return false
	}
	if r.Min != nil && *v < *r.Min {
		return false
	}
	if r.Max != nil && *v > *r.Max {
		return false
	}
	return true
}

func (r Range[T]) negative() bool {
	return (r.Min != nil && *r.Min < 0) || (r.Max != nil && *r.Max < 0)
}

// Ptr - удобный конструктор указателя для литералов
func Ptr[T any](v T) *T {
	return &v
}
