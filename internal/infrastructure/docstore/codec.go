package docstore

import (
	"encoding/json"
	"fmt"

	"github.com/jhoicas/procurement-allocation/internal/domain/repository"
)

func decode[T any](d *repository.Document) (*T, error) {
	if d == nil {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(d.Data, &v); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", d.Collection, d.ID, err)
	}
	return &v, nil
}

func decodeAll[T any](docs []repository.Document) ([]*T, error) {
	out := make([]*T, 0, len(docs))
	for i := range docs {
		v, err := decode[T](&docs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
