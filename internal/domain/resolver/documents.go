package resolver

import (
	"strings"
	"time"

	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
)

// minPatternLen largo mínimo de una clave para coincidencias por contención o prefijo numérico.
const minPatternLen = 3

// DocumentKeys claves de un documento con id generado y número de negocio.
type DocumentKeys struct {
	ID          string
	BusinessKey string
	UpdatedAt   time.Time
}

// DocumentCascade cascada para documentos padre y órdenes:
// id exacto → clave de negocio exacta → contención → prefijo numérico → más reciente con el mismo prefijo.
func DocumentCascade[T any](kind string, keys func(T) DocumentKeys) Cascade[string, T] {
	return Cascade[string, T]{
		Kind: kind,
		Matchers: []Matcher[string, T]{
			{Strategy: StrategyPrimaryKey, Select: First(func(q string, c T) bool {
				q = strings.TrimSpace(q)
				return q != "" && keys(c).ID == q
			})},
			{Strategy: StrategyBusinessKey, Select: First(func(q string, c T) bool {
				return EqualFold(keys(c).BusinessKey, q)
			})},
			{Strategy: StrategyContainment, Select: First(func(q string, c T) bool {
				k := keys(c)
				return contains(k.ID, q) || contains(k.BusinessKey, q)
			})},
			{Strategy: StrategyPrefixPattern, Select: First(func(q string, c T) bool {
				return sharesDigitPrefix(keys(c).BusinessKey, q)
			})},
			{Strategy: StrategyRecentPrefix, Select: func(q string, candidates []T) (int, bool) {
				prefix := AlphaPrefix(q)
				if prefix == "" {
					return -1, false
				}
				best := -1
				var bestAt time.Time
				for i, c := range candidates {
					k := keys(c)
					if AlphaPrefix(k.BusinessKey) != prefix {
						continue
					}
					if best == -1 || k.UpdatedAt.After(bestAt) {
						best, bestAt = i, k.UpdatedAt
					}
				}
				return best, best >= 0
			}},
		},
		Describe: func(q string) string { return q },
		NearMiss: func(q string, c T) (string, bool) {
			k := keys(c)
			label := k.BusinessKey
			if label == "" {
				label = k.ID
			}
			p := AlphaPrefix(q)
			if p != "" && AlphaPrefix(k.BusinessKey) == p {
				return label, true
			}
			d := Digits(q)
			if len(d) >= minPatternLen && strings.Contains(Digits(k.BusinessKey)+"|"+Digits(k.ID), d[:minPatternLen]) {
				return label, true
			}
			return "", false
		},
		Label: func(c T) string {
			k := keys(c)
			if k.BusinessKey != "" {
				return k.BusinessKey
			}
			return k.ID
		},
	}
}

// contains contención en cualquier sentido entre claves normalizadas.
func contains(stored, q string) bool {
	ns, nq := Normalize(stored), Normalize(q)
	if len(ns) < minPatternLen || len(nq) < minPatternLen {
		return false
	}
	return strings.Contains(ns, nq) || strings.Contains(nq, ns)
}

// sharesDigitPrefix la parte numérica de una clave es prefijo de la otra.
func sharesDigitPrefix(stored, q string) bool {
	ds, dq := Digits(stored), Digits(q)
	if len(ds) < minPatternLen || len(dq) < minPatternLen {
		return false
	}
	return strings.HasPrefix(ds, dq) || strings.HasPrefix(dq, ds)
}

// ReceivingCascade cascada para documentos de recepción.
func ReceivingCascade() Cascade[string, *entity.ReceivingDocument] {
	return DocumentCascade("receiving", func(d *entity.ReceivingDocument) DocumentKeys {
		return DocumentKeys{ID: string(d.ID), BusinessKey: d.DocumentNumber, UpdatedAt: d.UpdatedAt}
	})
}

// OrderCascade cascada para órdenes consumidoras.
func OrderCascade() Cascade[string, *entity.ConsumingOrder] {
	return DocumentCascade("order", func(o *entity.ConsumingOrder) DocumentKeys {
		return DocumentKeys{ID: string(o.ID), BusinessKey: o.OrderNumber, UpdatedAt: o.UpdatedAt}
	})
}
