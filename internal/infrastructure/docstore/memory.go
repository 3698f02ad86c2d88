package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-allocation/internal/domain"
	"github.com/jhoicas/procurement-allocation/internal/domain/repository"
)

var _ repository.DocumentStore = (*Memory)(nil)

// Memory almacén de documentos en memoria (tests y desarrollo con DOCSTORE_DRIVER=memory).
// Guarda JSON crudo para que las lecturas nunca compartan punteros con lo almacenado.
type Memory struct {
	mu    sync.RWMutex
	docs  map[string]map[string]memDoc
	clock func() time.Time
}

type memDoc struct {
	data      json.RawMessage
	updatedAt time.Time
}

// NewMemory construye un almacén vacío.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]map[string]memDoc), clock: time.Now}
}

// Get lectura puntual por id.
func (m *Memory) Get(_ context.Context, collection, id string) (*repository.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.docs[collection][id]
	if !ok {
		return nil, nil
	}
	return toDocument(collection, id, d), nil
}

// Query consulta con filtros de igualdad sobre campos de primer nivel. Orden estable por id.
func (m *Memory) Query(_ context.Context, collection string, filters ...repository.Filter) ([]repository.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.docs[collection]))
	for id := range m.docs[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]repository.Document, 0, len(ids))
	for _, id := range ids {
		d := m.docs[collection][id]
		ok, err := matches(d.data, filters)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", collection, err)
		}
		if ok {
			out = append(out, *toDocument(collection, id, d))
		}
	}
	return out, nil
}

// Insert crea el documento; falla con ErrConflict si el id ya existe.
func (m *Memory) Insert(_ context.Context, collection, id string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("insert %s/%s: %w", collection, id, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string]memDoc)
	}
	if _, exists := m.docs[collection][id]; exists {
		return fmt.Errorf("insert %s/%s: %w", collection, id, domain.ErrConflict)
	}
	m.docs[collection][id] = memDoc{data: raw, updatedAt: m.clock()}
	return nil
}

// Update actualización parcial por rutas ("items.2", "fulfillment.rate").
func (m *Memory) Update(_ context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[collection][id]
	if !ok {
		return fmt.Errorf("update %s/%s: %w", collection, id, domain.ErrNotFound)
	}
	var root any
	if err := json.Unmarshal(d.data, &root); err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	// Rutas ordenadas para aplicar siempre en el mismo orden.
	paths := make([]string, 0, len(fields))
	for p := range fields {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		v, err := toGeneric(fields[p])
		if err != nil {
			return fmt.Errorf("update %s/%s %s: %w", collection, id, p, err)
		}
		if root, err = setPath(root, strings.Split(p, "."), v); err != nil {
			return fmt.Errorf("update %s/%s %s: %w", collection, id, p, err)
		}
	}
	raw, err := json.Marshal(root)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	m.docs[collection][id] = memDoc{data: raw, updatedAt: m.clock()}
	return nil
}

// Delete elimina el documento; no falla si no existe.
func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs[collection], id)
	return nil
}

// Sum suma un campo numérico (número JSON o decimal serializado como string).
func (m *Memory) Sum(ctx context.Context, collection, field string, filters ...repository.Filter) (decimal.Decimal, error) {
	docs, err := m.Query(ctx, collection, filters...)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, d := range docs {
		var obj map[string]any
		if err := json.Unmarshal(d.Data, &obj); err != nil {
			return decimal.Zero, fmt.Errorf("sum %s: %w", collection, err)
		}
		v, ok := obj[field]
		if !ok || v == nil {
			continue
		}
		n, err := decimal.NewFromString(scalarString(v))
		if err != nil {
			return decimal.Zero, fmt.Errorf("sum %s.%s: %w", collection, field, err)
		}
		total = total.Add(n)
	}
	return total, nil
}

func toDocument(collection, id string, d memDoc) *repository.Document {
	data := make(json.RawMessage, len(d.data))
	copy(data, d.data)
	return &repository.Document{Collection: collection, ID: id, Data: data, UpdatedAt: d.updatedAt}
}

func matches(raw json.RawMessage, filters []repository.Filter) (bool, error) {
	if len(filters) == 0 {
		return true, nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false, err
	}
	for _, f := range filters {
		v, ok := obj[f.Field]
		if !ok || v == nil {
			return false, nil
		}
		got := scalarString(v)
		hit := false
		for _, want := range f.Values {
			if got == want {
				hit = true
				break
			}
		}
		if !hit {
			return false, nil
		}
	}
	return true, nil
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// toGeneric convierte un valor Go a su forma JSON genérica (map/slice/escalares).
func toGeneric(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func setPath(node any, path []string, value any) (any, error) {
	if len(path) == 0 {
		return value, nil
	}
	key := path[0]
	switch n := node.(type) {
	case map[string]any:
		child, err := setPath(n[key], path[1:], value)
		if err != nil {
			return nil, err
		}
		n[key] = child
		return n, nil
	case []any:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(n) {
			return nil, fmt.Errorf("índice %q fuera de rango", key)
		}
		child, err := setPath(n[idx], path[1:], value)
		if err != nil {
			return nil, err
		}
		n[idx] = child
		return n, nil
	case nil:
		if len(path) == 1 {
			return map[string]any{key: value}, nil
		}
		child, err := setPath(nil, path[1:], value)
		if err != nil {
			return nil, err
		}
		return map[string]any{key: child}, nil
	default:
		return nil, fmt.Errorf("no se puede anidar %q en un valor escalar", key)
	}
}
