package vc

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Columnas designadas del dataset de inversores.
const (
	ColCountries    = "Countries of investment"
	ColGlobalHQ     = "Global HQ"
	ColStage        = "Stage of investment"
	ColMinCheque    = "First cheque minimum"
	ColMaxCheque    = "First cheque maximum"
	ColInvestorType = "Investor type"
)

// Record es una fila del dataset. Los montos de cheque se parsean a numero
// una sola vez en la carga; una celda no numerica queda nil (comodin: ese
// registro nunca se excluye por criterios de monto).
type Record struct {
	fields    map[string]string
	MinCheque *float64
	MaxCheque *float64
}

// Text devuelve el valor crudo de una columna; columna ausente es cadena vacia.
func (r Record) Text(column string) string {
	return r.fields[column]
}

// Document serializa la fila para la respuesta HTTP. Las celdas vacias se
// emiten como null explicito, y los montos como numero o null, nunca NaN.
func (r Record) Document(columns []string) map[string]any {
	doc := make(map[string]any, len(columns))
	for _, col := range columns {
		switch col {
		case ColMinCheque:
			doc[col] = r.MinCheque
		case ColMaxCheque:
			doc[col] = r.MaxCheque
		default:
			if v := r.fields[col]; v != "" {
				doc[col] = v
			} else {
				doc[col] = nil
			}
		}
	}
	return doc
}

// Dataset es el dataset de referencia inmutable, cargado una vez al inicio.
type Dataset struct {
	Columns []string
	Records []Record
}

// LoadDataset lee el CSV de inversores. Un archivo ilegible es fatal para el
// proceso: el caller decide terminar.
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset %s has no header row", path)
	}

	header := rows[0]
	ds := &Dataset{Columns: header}

	for _, row := range rows[1:] {
		fields := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				fields[col] = strings.TrimSpace(row[i])
			}
		}
		ds.Records = append(ds.Records, Record{
			fields:    fields,
			MinCheque: parseAmount(fields[ColMinCheque]),
			MaxCheque: parseAmount(fields[ColMaxCheque]),
		})
	}

	return ds, nil
}

func parseAmount(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}
