package docstore_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procurement-allocation/internal/domain"
	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
	"github.com/jhoicas/procurement-allocation/internal/domain/repository"
	"github.com/jhoicas/procurement-allocation/internal/infrastructure/docstore"
)

func TestMemory_InsertGetQuery(t *testing.T) {
	ctx := context.Background()
	m := docstore.NewMemory()

	require.NoError(t, m.Insert(ctx, "orders", "o2", map[string]any{"status": "draft", "n": 2}))
	require.NoError(t, m.Insert(ctx, "orders", "o1", map[string]any{"status": "completed", "n": 1}))
	require.NoError(t, m.Insert(ctx, "orders", "o3", map[string]any{"status": "confirmed", "n": 3}))

	err := m.Insert(ctx, "orders", "o1", map[string]any{})
	assert.ErrorIs(t, err, domain.ErrConflict)

	doc, err := m.Get(ctx, "orders", "missing")
	require.NoError(t, err)
	assert.Nil(t, doc, "no encontrado devuelve (nil, nil)")

	all, err := m.Query(ctx, "orders")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "o1", all[0].ID, "orden estable por id")

	open, err := m.Query(ctx, "orders", repository.In("status", "draft", "confirmed"))
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, "o2", open[0].ID)
	assert.Equal(t, "o3", open[1].ID)

	byNum, err := m.Query(ctx, "orders", repository.Eq("n", "3"))
	require.NoError(t, err)
	require.Len(t, byNum, 1)
	assert.Equal(t, "o3", byNum[0].ID)
}

func TestMemory_UpdateParcialPorRuta(t *testing.T) {
	ctx := context.Background()
	m := docstore.NewMemory()
	require.NoError(t, m.Insert(ctx, "receivings", "r1", map[string]any{
		"items": []map[string]any{{"id": "a", "qty": "1"}, {"id": "b", "qty": "2"}},
	}))

	require.NoError(t, m.Update(ctx, "receivings", "r1", map[string]any{
		"items.1":          map[string]any{"id": "b", "qty": "20"},
		"fulfillment.rate": "50",
	}))

	doc, err := m.Get(ctx, "receivings", "r1")
	require.NoError(t, err)
	var got struct {
		Items []struct {
			ID  string `json:"id"`
			Qty string `json:"qty"`
		} `json:"items"`
		Fulfillment struct {
			Rate string `json:"rate"`
		} `json:"fulfillment"`
	}
	require.NoError(t, json.Unmarshal(doc.Data, &got))
	assert.Equal(t, "1", got.Items[0].Qty, "la línea hermana no cambia")
	assert.Equal(t, "20", got.Items[1].Qty)
	assert.Equal(t, "50", got.Fulfillment.Rate)

	err = m.Update(ctx, "receivings", "r1", map[string]any{"items.5": "x"})
	assert.Error(t, err, "índice fuera de rango")
	err = m.Update(ctx, "receivings", "nope", map[string]any{"a": 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemory_LecturasNoCompartenEstado(t *testing.T) {
	ctx := context.Background()
	m := docstore.NewMemory()
	require.NoError(t, m.Insert(ctx, "products", "p1", map[string]any{"name": "x"}))
	doc, err := m.Get(ctx, "products", "p1")
	require.NoError(t, err)
	doc.Data[2] = 'Z'
	again, err := m.Get(ctx, "products", "p1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x"}`, string(again.Data))
}

func TestMemory_SumYDelete(t *testing.T) {
	ctx := context.Background()
	m := docstore.NewMemory()
	repo := docstore.NewAllocationRepository(m)
	for i, q := range []string{"40", "60.5", "7"} {
		status := entity.AllocationStatusAllocated
		if i == 2 {
			status = entity.AllocationStatusCancelled
		}
		require.NoError(t, repo.Create(ctx, &entity.AllocationRecord{
			ID:          entity.AllocationID([]string{"a1", "a2", "a3"}[i]),
			ReceivingID: "r1",
			LineItemID:  "li-1",
			Quantity:    decimal.RequireFromString(q),
			Status:      status,
		}))
	}
	sum, err := repo.SumActiveByItem(ctx, "r1", "li-1")
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.RequireFromString("100.5")))

	list, err := repo.ListByItem(ctx, "r1", "li-1")
	require.NoError(t, err)
	assert.Len(t, list, 3)

	require.NoError(t, repo.UpdateStatus(ctx, "a1", entity.AllocationStatusCancelled))
	rec, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, entity.AllocationStatusCancelled, rec.Status)

	require.NoError(t, m.Delete(ctx, repository.CollectionAllocations, "a2"))
	require.NoError(t, m.Delete(ctx, repository.CollectionAllocations, "a2"), "borrar dos veces no falla")
	sum, err = repo.SumActiveByItem(ctx, "r1", "li-1")
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

func TestReceivingRepo_UpdateItemSoloTocaSuPosicion(t *testing.T) {
	ctx := context.Background()
	m := docstore.NewMemory()
	repo := docstore.NewReceivingRepository(m)
	doc := &entity.ReceivingDocument{
		ID:             "r1",
		DocumentNumber: "PI-1",
		Items: []entity.LineItem{
			{ID: "li-1", QuantityReceived: decimal.NewFromInt(10)},
			{ID: "li-2", QuantityReceived: decimal.NewFromInt(20)},
		},
	}
	require.NoError(t, repo.Create(ctx, doc))

	updated := doc.Items[1]
	updated.TotalAllocated = decimal.NewFromInt(5)
	require.NoError(t, repo.UpdateItem(ctx, "r1", 1, updated))

	got, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, got.Items[0].TotalAllocated.IsZero())
	assert.True(t, got.Items[1].TotalAllocated.Equal(decimal.NewFromInt(5)))

	byNumber, err := repo.ListByDocumentNumber(ctx, "PI-1")
	require.NoError(t, err)
	assert.Len(t, byNumber, 1)
}

func TestCatalogRepo_SoloProyectosActivos(t *testing.T) {
	ctx := context.Background()
	m := docstore.NewMemory()
	require.NoError(t, m.Insert(ctx, repository.CollectionProjects, "prj-1", entity.ProjectCode{ID: "prj-1", Code: "PRJ-1", Name: "Norte", Active: true}))
	require.NoError(t, m.Insert(ctx, repository.CollectionProjects, "prj-2", entity.ProjectCode{ID: "prj-2", Code: "PRJ-2", Name: "Sur"}))
	require.NoError(t, m.Insert(ctx, repository.CollectionWarehouses, "wh-1", entity.Warehouse{ID: "wh-1", Name: "Central"}))

	repo := docstore.NewCatalogRepository(m)
	projects, err := repo.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "PRJ-1", projects[0].Code)

	warehouses, err := repo.ListWarehouses(ctx)
	require.NoError(t, err)
	assert.Len(t, warehouses, 1)
}
