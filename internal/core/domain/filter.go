package domain

// NoFilter - список без фильтров
type NoFilter struct{}
