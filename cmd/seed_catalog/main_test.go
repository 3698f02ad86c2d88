package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCatalog_Latin1(t *testing.T) {
	// "Bodega Ñuñoa" en ISO-8859-1: Ñ=0xD1, ñ=0xF1.
	raw := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<catalogo>" +
		"<proyecto codigo=\"PRJ-2\" nombre=\"Obra Sur\" activo=\"false\"/>" +
		"<proyecto codigo=\"PRJ-1\" nombre=\"Obra Norte\"/>" +
		"<proyecto codigo=\"PRJ-1\" nombre=\"Obra Norte II\" activo=\"true\"/>" +
		"<proyecto codigo=\"\" nombre=\"Sin código\"/>" +
		"<bodega id=\"BOD-01\" nombre=\"Bodega \xD1u\xF1oa\" direccion=\"Calle 1\"/>" +
		"</catalogo>"

	c, err := decodeCatalog(strings.NewReader(raw))
	require.NoError(t, err)
	projects, warehouses := toEntities(c)

	require.Len(t, projects, 2)
	assert.Equal(t, "PRJ-1", projects[0].Code)
	assert.Equal(t, "Obra Norte II", projects[0].Name, "gana la última fila")
	assert.True(t, projects[0].Active)
	assert.False(t, projects[1].Active)

	require.Len(t, warehouses, 1)
	assert.Equal(t, "Bodega Ñuñoa", warehouses[0].Name)
}

func TestWriteSQL_EscapaComillas(t *testing.T) {
	c := &catalogo{Bodegas: []bodega{{ID: "BOD-9", Nombre: "Bodega O'Higgins"}}}
	_, warehouses := toEntities(c)

	var b strings.Builder
	require.NoError(t, writeSQL(&b, nil, warehouses))
	out := b.String()
	assert.Contains(t, out, "VALUES ('warehouses', 'BOD-9'")
	assert.Contains(t, out, "O''Higgins")
	assert.Contains(t, out, "ON CONFLICT (collection, id) DO UPDATE")
}
