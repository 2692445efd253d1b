package screening

import (
	"sort"

	"github.com/rastreio/rastreio/internal/domain/record"
)

// Recommendation priorities, highest first.
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

var priorityRank = map[string]int{
	PriorityUrgent: 0,
	PriorityHigh:   1,
	PriorityMedium: 2,
	PriorityLow:    3,
}

// Recommendation is one action item for the subject.
type Recommendation struct {
	Category  string `json:"category"`
	Title     string `json:"title"`
	Priority  string `json:"priority"`
	Timeframe string `json:"timeframe,omitempty"`
}

// Recommend builds the prioritized action list for the current record
// state. Screening reminders follow the eligibility output; prevention
// items follow lifestyle answers; any alert symptom adds an urgent
// evaluation item on top of the notification path.
func Recommend(r *record.Record, a Assessment, p Progress) []Recommendation {
	var recs []Recommendation

	if len(a.AlertSigns) > 0 {
		recs = append(recs, Recommendation{
			Category: "urgencia",
			Title:    "Procure avaliação médica imediata: sintomas de alerta relatados",
			Priority: PriorityUrgent,
		})
	}

	if a.DataSufficient {
		if a.Eligibility.Cervical {
			recs = append(recs, Recommendation{
				Category:  "rastreamento",
				Title:     "Agende o exame Papanicolau",
				Priority:  PriorityHigh,
				Timeframe: "a cada 3 anos",
			})
		}
		if a.Eligibility.Breast {
			recs = append(recs, Recommendation{
				Category:  "rastreamento",
				Title:     "Agende a mamografia",
				Priority:  PriorityHigh,
				Timeframe: "a cada 2 anos",
			})
		}
		if a.Eligibility.Prostate {
			recs = append(recs, Recommendation{
				Category:  "rastreamento",
				Title:     "Agende o exame de próstata",
				Priority:  PriorityHigh,
				Timeframe: "anualmente",
			})
		}
		if a.Eligibility.Colorectal {
			recs = append(recs, Recommendation{
				Category:  "rastreamento",
				Title:     "Agende a colonoscopia",
				Priority:  PriorityHigh,
				Timeframe: "a cada 10 anos",
			})
		}
	}

	if r.Smoking() == "Sim" {
		recs = append(recs, Recommendation{
			Category: "prevencao",
			Title:    "Procure apoio para parar de fumar",
			Priority: PriorityUrgent,
		})
	}
	if !record.Flag(r.PraticaExercicio) {
		recs = append(recs, Recommendation{
			Category: "prevencao",
			Title:    "Inclua atividade física regular na rotina",
			Priority: PriorityMedium,
		})
	}
	if record.Flag(r.ConsumoAlcool) {
		recs = append(recs, Recommendation{
			Category: "prevencao",
			Title:    "Reduza o consumo de bebidas alcoólicas",
			Priority: PriorityMedium,
		})
	}

	if p.Percent < 100 {
		recs = append(recs, Recommendation{
			Category: "questionario",
			Title:    "Continue preenchendo o questionário de saúde",
			Priority: PriorityLow,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank[recs[i].Priority] < priorityRank[recs[j].Priority]
	})
	return recs
}
