package tables

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/terraplan/blendopt/internal/domain/models"
)

// Table names used in diagnostics. They match the canonical file names the
// external tooling produces.
const (
	TableFields       = "potreros.csv"
	TableRequirements = "requerimientos.csv"
	TableProducts     = "productos.csv"
)

// Canonical column names, the external contract inherited from the source
// spreadsheets.
const (
	colFieldID = "potrero"
	colCrop    = "cultivo"
	colArea    = "superficie_ha"

	colNReq = "N_req_kg_ha"
	colPReq = "P2O5_req_kg_ha"
	colKReq = "K2O_req_kg_ha"

	colProductID = "producto"
	colNPct      = "N_pct"
	colPPct      = "P2O5_pct"
	colKPct      = "K2O_pct"
	colPrice     = "precio_CLP_ton"
	colDoseMin   = "dosis_min_kg_ha"
	colDoseMax   = "dosis_max_kg_ha"
)

// headerSynonyms maps header misspellings seen in the wild to canonical
// names. The P205 entry is the classic zero-for-capital-O typo.
var headerSynonyms = map[string]string{
	"P205_req_kg_ha": colPReq,
	"Cultivo":        colCrop,
	"Producto":       colProductID,
}

// table is a parsed tabular input with normalized headers.
type table struct {
	name string
	cols map[string]int
	rows [][]string
}

func newTable(name string, raw [][]string) (*table, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("table %s has no header row", name)
	}

	cols := make(map[string]int, len(raw[0]))
	for i, header := range raw[0] {
		header = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
		if canonical, ok := headerSynonyms[header]; ok {
			header = canonical
		}
		if _, dup := cols[header]; !dup {
			cols[header] = i
		}
	}

	return &table{name: name, cols: cols, rows: raw[1:]}, nil
}

// require checks the presence of every listed column.
func (t *table) require(columns ...string) error {
	for _, column := range columns {
		if _, ok := t.cols[column]; !ok {
			return &models.MissingColumnError{Table: t.name, Column: column}
		}
	}
	return nil
}

// cell returns the trimmed value of a column in the given row, or "" when
// the row is shorter than the header.
func (t *table) cell(row []string, column string) string {
	idx, ok := t.cols[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// floatOr coerces a cell to float64, falling back to def on blank or
// unparseable values. Leniency is deliberate: bad numerics become safe
// defaults instead of dropping the row.
func floatOr(raw string, def float64) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}
