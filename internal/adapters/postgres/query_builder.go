package postgres_adapter

import (
	"fmt"
	"strings"
)

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argId      int
}

func newQueryBuilder(baseConditions ...string) *queryBuilder {
	return &queryBuilder{
		argId:      1,
		conditions: append([]string{}, baseConditions...),
		args:       make([]interface{}, 0),
	}
}

func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argId))
	qb.args = append(qb.args, arg)
	qb.argId++
}

// AddFloatFilter - значение колонки в заданных границах. NULL в колонке не проходит.
func (qb *queryBuilder) AddFloatFilter(fieldName string, min *float64, max *float64) {
	if min != nil {
		qb.addCondition("%s >= $%d", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("%s <= $%d", fieldName, *max)
	}
}

func (qb *queryBuilder) AddIntFilter(fieldName string, min *int, max *int) {
	if min != nil {
		qb.addCondition("%s >= $%d", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("%s <= $%d", fieldName, *max)
	}
}

// addWithinBounds - обратная проверка: значение лежит между колонками minCol и maxCol,
// NULL-граница не ограничивает. Для неизвестного значения годятся только пустые границы.
func (qb *queryBuilder) addWithinBounds(minCol, maxCol string, value interface{}, known bool) {
	if !known {
		qb.conditions = append(qb.conditions, fmt.Sprintf("%s IS NULL AND %s IS NULL", minCol, maxCol))
		return
	}
	qb.conditions = append(qb.conditions, fmt.Sprintf(
		"(%s IS NULL OR %s <= $%d) AND (%s IS NULL OR %s >= $%d)",
		minCol, minCol, qb.argId, maxCol, maxCol, qb.argId,
	))
	qb.args = append(qb.args, value)
	qb.argId++
}

func (qb *queryBuilder) AddFloatBounds(minCol, maxCol string, value *float64) {
	if value == nil {
		qb.addWithinBounds(minCol, maxCol, nil, false)
		return
	}
	qb.addWithinBounds(minCol, maxCol, *value, true)
}

func (qb *queryBuilder) AddIntBounds(minCol, maxCol string, value *int) {
	if value == nil {
		qb.addWithinBounds(minCol, maxCol, nil, false)
		return
	}
	qb.addWithinBounds(minCol, maxCol, *value, true)
}

// build возвращает WHERE-часть и аргументы
func (qb *queryBuilder) build() (string, []interface{}) {
	whereClause := ""
	if len(qb.conditions) > 0 {
		whereClause = "WHERE " + strings.Join(qb.conditions, " AND ")
	}
	return whereClause, qb.args
}
