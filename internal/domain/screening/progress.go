package screening

import (
	"math"

	"github.com/rastreio/rastreio/internal/domain/record"
)

// Completion categories by percent band. Bands are upper-exclusive except
// the final one.
const (
	CategoryInitial      = "initial"
	CategoryBasic        = "basic"
	CategoryIntermediate = "intermediate"
	CategoryAdvanced     = "advanced"
	CategoryComplete     = "complete"
)

// Progress reports how much of the questionnaire the subject has answered.
type Progress struct {
	FilledCount int     `json:"filled_count"`
	TotalCount  int     `json:"total_count"`
	Percent     float64 `json:"percent"`
	Category    string  `json:"category"`
}

// Track counts the non-empty tracked fields of the record and maps the
// ratio to a completion category. Identity, derived and system fields are
// never counted.
func Track(r *record.Record) Progress {
	total := record.TotalFields()
	filled := 0
	for _, def := range record.Catalog() {
		if def.Filled(r) {
			filled++
		}
	}

	percent := math.Round(float64(filled)/float64(total)*1000) / 10
	return Progress{
		FilledCount: filled,
		TotalCount:  total,
		Percent:     percent,
		Category:    category(percent),
	}
}

func category(percent float64) string {
	switch {
	case percent < 25:
		return CategoryInitial
	case percent < 50:
		return CategoryBasic
	case percent < 75:
		return CategoryIntermediate
	case percent < 100:
		return CategoryAdvanced
	default:
		return CategoryComplete
	}
}
