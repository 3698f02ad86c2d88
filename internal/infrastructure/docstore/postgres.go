package docstore

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-allocation/internal/domain"
	"github.com/jhoicas/procurement-allocation/internal/domain/repository"
)

var _ repository.DocumentStore = (*Postgres)(nil)

//go:embed migrations/001_documents.sql
var schemaSQL string

// fieldName solo campos simples; los nombres se interpolan en el SQL.
var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Querier lo que necesitan los adaptadores: lo cumplen *pgxpool.Pool y pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres almacén de documentos sobre una tabla JSONB.
type Postgres struct {
	q Querier
}

// NewPostgres construye el adaptador. Pasar pool o tx (Querier).
func NewPostgres(q Querier) *Postgres {
	return &Postgres{q: q}
}

// EnsureSchema crea la tabla e índices si no existen.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Get lectura puntual; (nil, nil) si no existe.
func (s *Postgres) Get(ctx context.Context, collection, id string) (*repository.Document, error) {
	d := repository.Document{Collection: collection, ID: id}
	err := s.q.QueryRow(ctx,
		`SELECT data, updated_at FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&d.Data, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return &d, nil
}

// Query consulta filtrada sobre campos de primer nivel (data->>campo).
func (s *Postgres) Query(ctx context.Context, collection string, filters ...repository.Filter) ([]repository.Document, error) {
	where, args, err := buildWhere(collection, filters)
	if err != nil {
		return nil, err
	}
	rows, err := s.q.Query(ctx, `SELECT id, data, updated_at FROM documents WHERE `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()
	var out []repository.Document
	for rows.Next() {
		d := repository.Document{Collection: collection}
		if err := rows.Scan(&d.ID, &d.Data, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Insert crea el documento; ErrConflict si ya existe.
func (s *Postgres) Insert(ctx context.Context, collection, id string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("insert %s/%s: %w", collection, id, err)
	}
	_, err = s.q.Exec(ctx,
		`INSERT INTO documents (collection, id, data, updated_at) VALUES ($1, $2, $3::jsonb, now())`,
		collection, id, string(raw),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert %s/%s: %w", collection, id, domain.ErrConflict)
		}
		return fmt.Errorf("insert %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update actualización parcial: un jsonb_set anidado por ruta.
func (s *Postgres) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	paths := make([]string, 0, len(fields))
	for p := range fields {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	expr := "data"
	args := []any{collection, id}
	for _, p := range paths {
		raw, err := json.Marshal(fields[p])
		if err != nil {
			return fmt.Errorf("update %s/%s %s: %w", collection, id, p, err)
		}
		args = append(args, strings.Split(p, "."), string(raw))
		expr = fmt.Sprintf("jsonb_set(%s, $%d::text[], $%d::jsonb, true)", expr, len(args)-1, len(args))
	}
	cmd, err := s.q.Exec(ctx,
		`UPDATE documents SET data = `+expr+`, updated_at = now() WHERE collection = $1 AND id = $2`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update %s/%s: %w", collection, id, domain.ErrNotFound)
	}
	return nil
}

// Delete elimina el documento.
func (s *Postgres) Delete(ctx context.Context, collection, id string) error {
	_, err := s.q.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Sum SUM((data->>campo)::numeric) sobre los documentos filtrados.
func (s *Postgres) Sum(ctx context.Context, collection, field string, filters ...repository.Filter) (decimal.Decimal, error) {
	if !fieldName.MatchString(field) {
		return decimal.Zero, fmt.Errorf("sum %s: campo inválido %q: %w", collection, field, domain.ErrInvalidInput)
	}
	where, args, err := buildWhere(collection, filters)
	if err != nil {
		return decimal.Zero, err
	}
	var total decimal.Decimal
	query := fmt.Sprintf(`SELECT COALESCE(SUM((data->>'%s')::numeric), 0) FROM documents WHERE %s`, field, where)
	if err := s.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum %s.%s: %w", collection, field, err)
	}
	return total, nil
}

func buildWhere(collection string, filters []repository.Filter) (string, []any, error) {
	clauses := []string{"collection = $1"}
	args := []any{collection}
	for _, f := range filters {
		if !fieldName.MatchString(f.Field) {
			return "", nil, fmt.Errorf("filtro inválido %q: %w", f.Field, domain.ErrInvalidInput)
		}
		switch f.Op {
		case repository.OpEq:
			if len(f.Values) != 1 {
				return "", nil, fmt.Errorf("filtro eq %q requiere un valor: %w", f.Field, domain.ErrInvalidInput)
			}
			args = append(args, f.Values[0])
			clauses = append(clauses, fmt.Sprintf("data->>'%s' = $%s", f.Field, strconv.Itoa(len(args))))
		case repository.OpIn:
			args = append(args, f.Values)
			clauses = append(clauses, fmt.Sprintf("data->>'%s' = ANY($%s)", f.Field, strconv.Itoa(len(args))))
		default:
			return "", nil, fmt.Errorf("operador %q no soportado: %w", f.Op, domain.ErrInvalidInput)
		}
	}
	return strings.Join(clauses, " AND "), args, nil
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
