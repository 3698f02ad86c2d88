// seed_catalog genera el script SQL que carga los catálogos de destino (códigos de proyecto y bodegas)
// en el almacén de documentos a partir de un XML exportado del ERP.
//
// Uso: go run ./cmd/seed_catalog [ruta/Catalogo.xml] [ruta/salida.sql]
// Por defecto lee Catalogo.xml del directorio actual.
// Escribe: internal/infrastructure/docstore/migrations/002_seed_catalog.sql
//
// Formato esperado:
//
//	<catalogo>
//	  <proyecto codigo="PRJ-001" nombre="Obra Norte" activo="true"/>
//	  <bodega id="BOD-01" nombre="Bodega principal" direccion="Calle 1"/>
//	</catalogo>
package main

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
	"github.com/jhoicas/procurement-allocation/internal/domain/repository"
)

type catalogo struct {
	Proyectos []proyecto `xml:"proyecto"`
	Bodegas   []bodega   `xml:"bodega"`
}

type proyecto struct {
	Codigo string `xml:"codigo,attr"`
	Nombre string `xml:"nombre,attr"`
	Activo string `xml:"activo,attr"`
}

type bodega struct {
	ID        string `xml:"id,attr"`
	Nombre    string `xml:"nombre,attr"`
	Direccion string `xml:"direccion,attr"`
}

func main() {
	xmlPath := "Catalogo.xml"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}
	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "docstore", "migrations", "002_seed_catalog.sql")
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	f, err := os.Open(xmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	c, err := decodeCatalog(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar XML: %v\n", err)
		os.Exit(1)
	}
	projects, warehouses := toEntities(c)

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, projects, warehouses); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d proyectos, %d bodegas\n", outPath, len(projects), len(warehouses))
}

// decodeCatalog lee el XML; acepta UTF-8, ISO-8859-1 y Windows-1252 (exportaciones del ERP).
func decodeCatalog(r io.Reader) (*catalogo, error) {
	var c catalogo
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToUpper(charset) {
		case "ISO-8859-1", "ISO8859-1", "LATIN1":
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		case "WINDOWS-1252", "CP1252":
			return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// toEntities descarta filas sin clave o nombre y deduplica por clave (gana la última).
func toEntities(c *catalogo) ([]entity.ProjectCode, []entity.Warehouse) {
	pm := make(map[string]entity.ProjectCode)
	for _, p := range c.Proyectos {
		code, name := strings.TrimSpace(p.Codigo), strings.TrimSpace(p.Nombre)
		if code == "" || name == "" {
			continue
		}
		active := true
		if v := strings.TrimSpace(p.Activo); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				active = b
			}
		}
		pm[code] = entity.ProjectCode{ID: entity.TargetID(code), Code: code, Name: name, Active: active}
	}
	wm := make(map[string]entity.Warehouse)
	for _, b := range c.Bodegas {
		id, name := strings.TrimSpace(b.ID), strings.TrimSpace(b.Nombre)
		if id == "" || name == "" {
			continue
		}
		wm[id] = entity.Warehouse{ID: entity.TargetID(id), Name: name, Address: strings.TrimSpace(b.Direccion)}
	}

	projects := make([]entity.ProjectCode, 0, len(pm))
	for _, p := range pm {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	warehouses := make([]entity.Warehouse, 0, len(wm))
	for _, w := range wm {
		warehouses = append(warehouses, w)
	}
	sort.Slice(warehouses, func(i, j int) bool { return warehouses[i].ID < warehouses[j].ID })
	return projects, warehouses
}

func writeSQL(w io.Writer, projects []entity.ProjectCode, warehouses []entity.Warehouse) error {
	var b strings.Builder
	b.WriteString("-- Catálogos de destino de asignación\n")
	b.WriteString("-- Generado por cmd/seed_catalog\n\n")
	for _, p := range projects {
		if err := writeUpsert(&b, repository.CollectionProjects, string(p.ID), p); err != nil {
			return err
		}
	}
	for _, wh := range warehouses {
		if err := writeUpsert(&b, repository.CollectionWarehouses, string(wh.ID), wh); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeUpsert(b *strings.Builder, collection, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s/%s: %w", collection, id, err)
	}
	fmt.Fprintf(b, "INSERT INTO documents (collection, id, data) VALUES ('%s', '%s', '%s'::jsonb)\n",
		collection, escapeSQL(id), escapeSQL(string(data)))
	b.WriteString("ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now();\n")
	return nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
