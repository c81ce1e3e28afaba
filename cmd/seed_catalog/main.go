// seed_catalog genera un script SQL para cargar el catálogo de equipos a partir de una
// planilla CSV exportada del sistema anterior.
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.csv] [salida.sql]
// Por defecto lee catalogo.csv del directorio actual y escribe seed_catalog.sql en la raíz del módulo.
//
// Columnas esperadas (con encabezado): nombre;descripcion;precio;stock[;notas]
// El separador puede ser ";" o ",". Las planillas exportadas en Windows-1252 se convierten a UTF-8.
package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// catalogNamespace fija los IDs derivados del nombre: volver a correr el script actualiza en lugar de duplicar.
var catalogNamespace = uuid.MustParse("6f1c3c2e-6a0b-4d0e-9a57-3b1f2f0c9e11")

type catalogItem struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Notes       string
}

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	outPath := filepath.Join(findModuleRoot(), "seed_catalog.sql")
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	items, err := parseCatalog(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	writeSQL(w, items)
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d productos\n", outPath, len(items))
}

// decodeInput devuelve un lector UTF-8: si los bytes no son UTF-8 válido se asumen Windows-1252.
func decodeInput(raw []byte) io.Reader {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return bytes.NewReader(raw)
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.Windows1252.NewDecoder())
}

func parseCatalog(raw []byte) ([]catalogItem, error) {
	r := csv.NewReader(decodeInput(raw))
	r.Comma = detectComma(raw)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("el archivo no tiene filas de datos")
	}

	seen := make(map[string]bool)
	var items []catalogItem
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) < 4 {
			return nil, fmt.Errorf("línea %d: se esperaban al menos 4 columnas", line)
		}
		name := strings.TrimSpace(rec[0])
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, fmt.Errorf("línea %d: producto repetido %q", line, name)
		}
		seen[key] = true

		price, err := parsePrice(rec[2])
		if err != nil {
			return nil, fmt.Errorf("línea %d: precio %q: %w", line, rec[2], err)
		}
		stock, err := strconv.Atoi(strings.TrimSpace(rec[3]))
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("línea %d: stock %q inválido", line, rec[3])
		}
		item := catalogItem{
			ID:          uuid.NewSHA1(catalogNamespace, []byte(key)).String(),
			Name:        name,
			Description: strings.TrimSpace(rec[1]),
			Price:       price,
			Stock:       stock,
		}
		if len(rec) > 4 {
			item.Notes = strings.TrimSpace(rec[4])
		}
		items = append(items, item)
	}
	return items, nil
}

// parsePrice acepta "1.250,50", "1250.50" y "$ 1.250".
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else if strings.Count(s, ".") > 1 || (strings.Contains(s, ".") && len(s)-strings.LastIndex(s, ".") == 4) {
		s = strings.ReplaceAll(s, ".", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negativo")
	}
	return d, nil
}

func detectComma(raw []byte) rune {
	header, _, _ := bytes.Cut(raw, []byte("\n"))
	if bytes.Count(header, []byte(";")) >= bytes.Count(header, []byte(",")) {
		return ';'
	}
	return ','
}

// writeSQL escribe un upsert por producto. El stock solo se fija al insertar: los cambios
// de capacidad de un producto existente pasan por la API.
func writeSQL(w io.Writer, items []catalogItem) {
	fmt.Fprintln(w, "-- Catálogo de equipos")
	fmt.Fprintln(w, "-- Generado por cmd/seed_catalog")
	fmt.Fprintln(w)
	for _, it := range items {
		fmt.Fprintln(w, "INSERT INTO products (id, name, description, price, stock_total, stock_actual, notes)")
		fmt.Fprintf(w, "VALUES ('%s', '%s', '%s', %s, %d, %d, '%s')\n",
			it.ID, escapeSQL(it.Name), escapeSQL(it.Description), it.Price.StringFixed(2), it.Stock, it.Stock, escapeSQL(it.Notes))
		fmt.Fprintln(w, "ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description,")
		fmt.Fprintln(w, "    price = EXCLUDED.price, notes = EXCLUDED.notes, updated_at = now();")
	}
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
