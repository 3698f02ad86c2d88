package resolver

import (
	"regexp"
	"strconv"

	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
)

// syntheticItemID ids generados por la interfaz a partir de la posición ("item-2", "<doc>_line_0").
var syntheticItemID = regexp.MustCompile(`(?i)(?:^|[-_])(?:item|line)[-_]?(\d+)$`)

// ItemCascade cascada para líneas dentro de un documento ya resuelto:
// id exacto → código de producto → nombre → número de parte/SKU → índice posicional → primera línea.
func ItemCascade() Cascade[string, entity.LineItem] {
	return Cascade[string, entity.LineItem]{
		Kind: "item",
		Matchers: []Matcher[string, entity.LineItem]{
			{Strategy: StrategyItemID, Select: First(func(q string, c entity.LineItem) bool {
				return q != "" && string(c.ID) == q
			})},
			{Strategy: StrategyProductCode, Select: First(func(q string, c entity.LineItem) bool {
				return EqualFold(c.Code, q)
			})},
			{Strategy: StrategyProductName, Select: First(func(q string, c entity.LineItem) bool {
				return EqualFold(c.Name, q)
			})},
			{Strategy: StrategyPartNumber, Select: First(func(q string, c entity.LineItem) bool {
				return EqualFold(c.SKU, q)
			})},
			{Strategy: StrategyPositional, Select: func(q string, items []entity.LineItem) (int, bool) {
				idx, ok := PositionalIndex(q)
				return idx, ok && idx < len(items)
			}},
			{Strategy: StrategyFirstItem, Select: func(_ string, items []entity.LineItem) (int, bool) {
				return 0, len(items) > 0
			}},
		},
		Describe: func(q string) string { return q },
		Label:    func(c entity.LineItem) string { return string(c.ID) },
	}
}

// PositionalIndex extrae el índice (base 0) de un id sintético.
func PositionalIndex(id string) (int, bool) {
	m := syntheticItemID.FindStringSubmatch(id)
	if m == nil {
		return -1, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return -1, false
	}
	return n, true
}
