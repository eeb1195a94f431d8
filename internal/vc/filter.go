package vc

import (
	"math/rand"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// sampleSeed fija el generador del muestreo: llamadas repetidas con los mismos
// inputs devuelven la misma muestra.
const sampleSeed = 42

// Criteria son los criterios de filtrado independientes. Un criterio vacio o
// nil se salta por completo (no recorta el conjunto).
type Criteria struct {
	Location     string
	Stage        string
	InvestorType string
	MinCheque    *float64
	MaxCheque    *float64
	Percentage   float64
}

// ParseQuery arma los criterios desde los query params. Los numericos
// imparseables degradan en silencio a "omitido"; un porcentaje fuera de
// [0,100] vuelve a 100 (sin muestreo).
func ParseQuery(values url.Values) Criteria {
	c := Criteria{
		Location:     values.Get("location"),
		Stage:        values.Get("stage"),
		InvestorType: values.Get("investor_type"),
		Percentage:   100,
	}

	if raw := values.Get("min_cheque"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			c.MinCheque = &v
		}
	}
	if raw := values.Get("max_cheque"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			c.MaxCheque = &v
		}
	}
	if raw := values.Get("percentage"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 && v <= 100 {
			c.Percentage = v
		}
	}

	return c
}

// Filter aplica los criterios en secuencia, cada paso recortando el conjunto
// actual. El matching de texto es substring case-insensitive; un valor ausente
// nunca matchea una consulta no vacia. Los montos ausentes son comodines.
func Filter(records []Record, c Criteria) []Record {
	out := records

	if q := strings.TrimSpace(c.Location); q != "" {
		out = keep(out, func(r Record) bool {
			return containsFold(r.Text(ColCountries), q) || containsFold(r.Text(ColGlobalHQ), q)
		})
	}

	if q := strings.TrimSpace(c.Stage); q != "" {
		out = keep(out, func(r Record) bool {
			return containsFold(r.Text(ColStage), q)
		})
	}

	if c.MinCheque != nil {
		out = keep(out, func(r Record) bool {
			return r.MinCheque == nil || *r.MinCheque >= *c.MinCheque
		})
	}

	if c.MaxCheque != nil {
		out = keep(out, func(r Record) bool {
			return r.MaxCheque == nil || *r.MaxCheque <= *c.MaxCheque
		})
	}

	if q := strings.TrimSpace(c.InvestorType); q != "" {
		out = keep(out, func(r Record) bool {
			return containsFold(r.Text(ColInvestorType), q)
		})
	}

	return out
}

// Sample toma floor(N*pct/100) registros sin reemplazo con semilla fija.
// Un pct fuera de (0,100) devuelve el conjunto completo sin tocar.
func Sample(records []Record, pct float64) []Record {
	if pct <= 0 || pct >= 100 {
		return records
	}

	n := int(float64(len(records)) * pct / 100)
	rng := rand.New(rand.NewSource(sampleSeed))
	idx := rng.Perm(len(records))[:n]
	sort.Ints(idx)

	out := make([]Record, 0, n)
	for _, i := range idx {
		out = append(out, records[i])
	}
	return out
}

func keep(records []Record, match func(Record) bool) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
