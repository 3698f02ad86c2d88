package resolver

import "github.com/jhoicas/procurement-allocation/internal/domain"

// Strategy nombre de la estrategia que resolvió el registro (se conserva para auditoría).
type Strategy string

const (
	StrategyPrimaryKey    Strategy = "primary_key"
	StrategyBusinessKey   Strategy = "business_key"
	StrategyContainment   Strategy = "containment"
	StrategyPrefixPattern Strategy = "prefix_pattern"
	StrategyRecentPrefix  Strategy = "recent_prefix"

	StrategyItemID      Strategy = "item_id"
	StrategyProductCode Strategy = "product_code"
	StrategyProductName Strategy = "product_name"
	StrategyPartNumber  Strategy = "part_number"
	StrategyPositional  Strategy = "positional_index"
	StrategyFirstItem   Strategy = "first_item"

	StrategyProductID Strategy = "product_id"
	StrategySKU       Strategy = "sku"
)

// maxNearMisses candidatos cercanos que se incluyen en el NotFoundError.
const maxNearMisses = 5

// Matcher estrategia de coincidencia: devuelve el índice del candidato elegido.
type Matcher[Q, T any] struct {
	Strategy Strategy
	Select   func(q Q, candidates []T) (int, bool)
}

// Match resultado de una resolución.
type Match[T any] struct {
	Value    T
	Index    int
	Strategy Strategy
}

// Cascade lista ordenada de estrategias, de estricta a permisiva.
type Cascade[Q, T any] struct {
	Kind     string
	Matchers []Matcher[Q, T]
	Describe func(q Q) string
	// NearMiss devuelve la clave del candidato si se parece a la consulta.
	NearMiss func(q Q, c T) (string, bool)
	// Label clave visible del candidato cuando no hay candidatos cercanos.
	Label func(c T) string
}

// Resolve aplica las estrategias en orden y devuelve el primer resultado no vacío.
// Falla con *domain.NotFoundError solo cuando todas se agotaron.
func (c Cascade[Q, T]) Resolve(q Q, candidates []T) (Match[T], error) {
	tried := make([]string, 0, len(c.Matchers))
	for _, m := range c.Matchers {
		tried = append(tried, string(m.Strategy))
		if len(candidates) == 0 {
			continue
		}
		if i, ok := m.Select(q, candidates); ok && i >= 0 && i < len(candidates) {
			return Match[T]{Value: candidates[i], Index: i, Strategy: m.Strategy}, nil
		}
	}
	return Match[T]{}, &domain.NotFoundError{
		Kind:       c.Kind,
		Query:      c.describe(q),
		Tried:      tried,
		NearMisses: c.nearMisses(q, candidates),
	}
}

func (c Cascade[Q, T]) describe(q Q) string {
	if c.Describe == nil {
		return ""
	}
	return c.Describe(q)
}

func (c Cascade[Q, T]) nearMisses(q Q, candidates []T) []string {
	var out []string
	if c.NearMiss != nil {
		for _, cand := range candidates {
			if key, ok := c.NearMiss(q, cand); ok {
				out = append(out, key)
				if len(out) == maxNearMisses {
					return out
				}
			}
		}
	}
	if len(out) == 0 && c.Label != nil {
		for i := 0; i < len(candidates) && i < maxNearMisses; i++ {
			out = append(out, c.Label(candidates[i]))
		}
	}
	return out
}

// First elige el primer candidato que cumple el predicado.
func First[Q, T any](pred func(q Q, c T) bool) func(Q, []T) (int, bool) {
	return func(q Q, candidates []T) (int, bool) {
		for i, c := range candidates {
			if pred(q, c) {
				return i, true
			}
		}
		return -1, false
	}
}
