// Package screening holds the deterministic rule engine that reads a
// questionnaire record snapshot: risk scoring, screening eligibility,
// completion progress and the recommendation list. Everything here is a
// pure function over a record; persistence happens elsewhere.
package screening

import "github.com/rastreio/rastreio/internal/domain/record"

// Risk levels, from the additive point total.
const (
	LevelHigh     = "high"
	LevelModerate = "moderate"
	LevelLow      = "low"
	LevelVeryLow  = "very_low"
)

const (
	highThreshold     = 50
	moderateThreshold = 25
)

// Point weights for each risk and protective factor.
const (
	pointsCurrentSmoker = 30
	pointsFormerSmoker  = 15
	pointsAlcohol       = 10
	pointsFamilyHistory = 20
	pointsNoExercise    = 10
	pointsExercise      = -5
	pointsNoAlcohol     = -5
	pointsBleeding      = 25
	pointsCough         = 20
	pointsNodules       = 25
	pointsWeightLoss    = 20
	pointsBowel         = 20
)

// Eligibility age cutoffs per screening type.
const (
	cervicalMinAge   = 21
	breastMinAge     = 40
	prostateMinAge   = 50
	colorectalMinAge = 45
)

// Eligibility reports whether the subject meets the criteria for each
// screening type.
type Eligibility struct {
	Cervical   bool `json:"cervical"`
	Breast     bool `json:"breast"`
	Prostate   bool `json:"prostate"`
	Colorectal bool `json:"colorectal"`
}

// Assessment is the full output of the risk and eligibility engine.
// When DataSufficient is false only MissingFields is populated; that is a
// valid "not yet scoreable" state, not an error.
type Assessment struct {
	DataSufficient    bool        `json:"data_sufficient"`
	MissingFields     []string    `json:"missing_fields,omitempty"`
	Points            int         `json:"points"`
	Level             string      `json:"level,omitempty"`
	RiskFactors       []string    `json:"risk_factors,omitempty"`
	ProtectiveFactors []string    `json:"protective_factors,omitempty"`
	AlertSigns        []string    `json:"alert_signs,omitempty"`
	Eligibility       Eligibility `json:"eligibility"`
}

// Score evaluates the record against the point rule table and the
// eligibility rules. Birth date and sex are mandatory inputs: without
// both, the assessment reports data_sufficient=false and names the
// missing fields.
func Score(r *record.Record) Assessment {
	var missing []string
	if r.Idade == nil {
		missing = append(missing, "data_nascimento")
	}
	if r.Sexo() == "" {
		missing = append(missing, "sexo_biologico")
	}
	if len(missing) > 0 {
		return Assessment{DataSufficient: false, MissingFields: missing}
	}

	a := Assessment{DataSufficient: true}

	switch r.Smoking() {
	case "Sim":
		a.add(pointsCurrentSmoker, "fumante atual")
	case "Ex-fumante":
		a.add(pointsFormerSmoker, "ex-fumante")
	}

	if record.Flag(r.ConsumoAlcool) {
		a.add(pointsAlcohol, "consumo de álcool")
	} else {
		a.protect(pointsNoAlcohol, "não consome álcool")
	}

	if record.Flag(r.HistoricoFamiliarCancer) {
		a.add(pointsFamilyHistory, "histórico familiar de câncer")
	}

	if record.Flag(r.PraticaExercicio) {
		a.protect(pointsExercise, "exercício físico regular")
	} else {
		a.add(pointsNoExercise, "sedentarismo")
	}

	alertSigns := []struct {
		name   string
		flag   *bool
		points int
	}{
		{"sangramento_anormal", r.SangramentoAnormal, pointsBleeding},
		{"tosse_persistente", r.TossePersistente, pointsCough},
		{"nodulos_palpaveis", r.NodulosPalpaveis, pointsNodules},
		{"perda_peso_nao_intencional", r.PerdaPesoNaoIntencional, pointsWeightLoss},
		{"alteracao_intestinal", r.AlteracaoIntestinal, pointsBowel},
	}
	for _, s := range alertSigns {
		if record.Flag(s.flag) {
			a.Points += s.points
			a.AlertSigns = append(a.AlertSigns, s.name)
		}
	}

	a.Level = level(a.Points)
	a.Eligibility = eligibility(r)
	return a
}

func (a *Assessment) add(points int, factor string) {
	a.Points += points
	a.RiskFactors = append(a.RiskFactors, factor)
}

func (a *Assessment) protect(points int, factor string) {
	a.Points += points
	a.ProtectiveFactors = append(a.ProtectiveFactors, factor)
}

// level maps a point total to its band. Boundary values resolve to the
// higher band: exactly 50 is high, exactly 25 is moderate.
func level(points int) string {
	switch {
	case points >= highThreshold:
		return LevelHigh
	case points >= moderateThreshold:
		return LevelModerate
	case points >= 1:
		return LevelLow
	default:
		return LevelVeryLow
	}
}

func eligibility(r *record.Record) Eligibility {
	age := *r.Idade
	sexo := r.Sexo()
	return Eligibility{
		Cervical:   sexo == "F" && record.Flag(r.AtividadeSexual) && age >= cervicalMinAge,
		Breast:     sexo == "F" && age >= breastMinAge,
		Prostate:   sexo == "M" && age >= prostateMinAge,
		Colorectal: age >= colorectalMinAge,
	}
}
