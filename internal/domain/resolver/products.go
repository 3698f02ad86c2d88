package resolver

import (
	"strings"

	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
)

// ProductCascade cascada para productos: id exacto → SKU → código → nombre (sin tildes ni mayúsculas).
func ProductCascade() Cascade[entity.ProductIdentity, *entity.Product] {
	return Cascade[entity.ProductIdentity, *entity.Product]{
		Kind: "product",
		Matchers: []Matcher[entity.ProductIdentity, *entity.Product]{
			{Strategy: StrategyProductID, Select: First(func(q entity.ProductIdentity, p *entity.Product) bool {
				return q.ProductID != "" && p.ID == q.ProductID
			})},
			{Strategy: StrategySKU, Select: First(func(q entity.ProductIdentity, p *entity.Product) bool {
				return EqualFold(p.SKU, q.SKU) || EqualFold(p.SKU, q.Code)
			})},
			{Strategy: StrategyProductCode, Select: First(func(q entity.ProductIdentity, p *entity.Product) bool {
				return EqualFold(p.Code, q.Code) || EqualFold(p.Code, q.SKU) || EqualFold(p.Code, string(q.ProductID))
			})},
			{Strategy: StrategyProductName, Select: First(func(q entity.ProductIdentity, p *entity.Product) bool {
				return EqualFold(p.Name, q.Name)
			})},
		},
		Describe: func(q entity.ProductIdentity) string { return strings.Join(q.Keys(), "/") },
		NearMiss: func(q entity.ProductIdentity, p *entity.Product) (string, bool) {
			name := Normalize(q.Name)
			if name != "" && len(name) >= minPatternLen && strings.Contains(Normalize(p.Name), name) {
				return string(p.ID), true
			}
			return "", false
		},
		Label: func(p *entity.Product) string { return string(p.ID) },
	}
}

// SameProduct compara dos identidades de producto campo a campo (más SKU↔código, que suelen cruzarse
// entre fuentes). Cualquier coincidencia basta.
func SameProduct(a, b entity.ProductIdentity) bool {
	switch {
	case a.ProductID != "" && EqualFold(string(a.ProductID), string(b.ProductID)):
		return true
	case EqualFold(a.SKU, b.SKU), EqualFold(a.Code, b.Code):
		return true
	case EqualFold(a.SKU, b.Code), EqualFold(a.Code, b.SKU):
		return true
	case EqualFold(a.Name, b.Name):
		return true
	}
	return false
}
