package record

import "regexp"

// FieldType is the semantic type of a questionnaire field.
type FieldType string

const (
	TypeText   FieldType = "text"
	TypeNumber FieldType = "number"
	TypeDate   FieldType = "date"
	TypeBool   FieldType = "bool"
	TypeEnum   FieldType = "enum"
)

// FieldDef describes one tracked questionnaire field: its name, semantic
// type, ordered recognition patterns (first match wins), accepted tokens
// for enum fields, and the accessors that bind the definition to the typed
// Record. The extractor, the progressive merge, and the progress tracker
// all iterate the same catalog instead of hand-listing fields.
type FieldDef struct {
	Name     string
	Type     FieldType
	Patterns []*regexp.Regexp

	// Tokens maps a lowercased recognized token to its canonical label.
	// Only used for enum fields.
	Tokens map[string]string

	// rescale adjusts a parsed number before assignment (unit heuristics).
	rescale func(float64) float64

	assign func(r *Record, v interface{})
	read   func(r *Record) interface{}
}

// Set writes a coerced value into the record field this definition covers.
func (d *FieldDef) Set(r *Record, v interface{}) {
	d.assign(r, v)
}

// Value returns the current value of the field, or nil when unset.
func (d *FieldDef) Value(r *Record) interface{} {
	return d.read(r)
}

// Filled reports whether the field holds a non-empty value: strings must be
// non-blank, numbers non-zero, booleans true. A false boolean carries no
// information in the progressive model.
func (d *FieldDef) Filled(r *Record) bool {
	return nonEmpty(d.read(r))
}

func nonEmpty(v interface{}) bool {
	switch x := v.(type) {
	case string:
		return x != ""
	case float64:
		return x != 0
	case bool:
		return x
	}
	return false
}

var catalog = buildCatalog()

// Catalog returns the ordered field catalog. The slice is shared; callers
// must not mutate it.
func Catalog() []FieldDef {
	return catalog
}

// TotalFields is the fixed number of tracked optional fields.
func TotalFields() int {
	return len(catalog)
}

// answer tokens shared by every boolean pattern
const boolAnswer = `(sim|s|n[ãa]o|n|true|false|yes|0|1)\b`

func textField(name string, f func(*Record) **string, patterns ...string) FieldDef {
	return FieldDef{
		Name:     name,
		Type:     TypeText,
		Patterns: compile(patterns),
		assign: func(r *Record, v interface{}) {
			s := v.(string)
			*f(r) = &s
		},
		read: func(r *Record) interface{} {
			p := *f(r)
			if p == nil {
				return nil
			}
			return *p
		},
	}
}

func dateField(name string, f func(*Record) **string, patterns ...string) FieldDef {
	d := textField(name, f, patterns...)
	d.Type = TypeDate
	return d
}

func enumField(name string, f func(*Record) **string, tokens map[string]string, patterns ...string) FieldDef {
	d := textField(name, f, patterns...)
	d.Type = TypeEnum
	d.Tokens = tokens
	return d
}

func numberField(name string, f func(*Record) **float64, patterns ...string) FieldDef {
	return FieldDef{
		Name:     name,
		Type:     TypeNumber,
		Patterns: compile(patterns),
		assign: func(r *Record, v interface{}) {
			n := v.(float64)
			*f(r) = &n
		},
		read: func(r *Record) interface{} {
			p := *f(r)
			if p == nil {
				return nil
			}
			return *p
		},
	}
}

func boolField(name string, f func(*Record) **bool, patterns ...string) FieldDef {
	return FieldDef{
		Name:     name,
		Type:     TypeBool,
		Patterns: compile(patterns),
		assign: func(r *Record, v interface{}) {
			b := v.(bool)
			*f(r) = &b
		},
		read: func(r *Record) interface{} {
			p := *f(r)
			if p == nil {
				return nil
			}
			return *p
		},
	}
}

func compile(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

func buildCatalog() []FieldDef {
	altura := numberField("altura_cm",
		func(r *Record) **float64 { return &r.AlturaCm },
		`(?i)\baltura\s*[:\-]?\s*(\d+(?:[.,]\d+)?)\s*(?:cm|m|metros?)?`,
		`(?i)\bme[çc]o\s*[:\-]?\s*(\d+(?:[.,]\d+)?)`,
	)
	// Values below the threshold are read as meters and rescaled to
	// centimeters. See parse.go.
	altura.rescale = rescaleHeight

	return []FieldDef{
		// -- Identity / demographics --
		textField("nome",
			func(r *Record) **string { return &r.Nome },
			`(?i)\b(?:meu nome [ée]|nome completo|nome)\s*[:\-]?\s*([^\n,;.]{2,80})`,
		),
		dateField("data_nascimento",
			func(r *Record) **string { return &r.DataNascimento },
			`(?i)\b(?:data de nascimento|nascimento|nasci em)\s*[:\-]?\s*(\d{1,2}/\d{1,2}/\d{4})`,
			`\b(\d{1,2}/\d{1,2}/\d{4})\b`,
		),
		enumField("sexo_biologico",
			func(r *Record) **string { return &r.SexoBiologico },
			map[string]string{
				"m": "M", "masculino": "M", "homem": "M",
				"f": "F", "feminino": "F", "mulher": "F",
			},
			`(?i)\bsexo(?:\s+biol[óo]gico)?\s*[:\-]?\s*(masculino|feminino|homem|mulher|[mf])\b`,
		),
		textField("cidade",
			func(r *Record) **string { return &r.Cidade },
			`(?i)\b(?:moro em|cidade)\s*[:\-]?\s*([^\n,;.]{2,60})`,
		),
		textField("estado",
			func(r *Record) **string { return &r.Estado },
			`(?i)\bestado\s*[:\-]?\s*([^\n,;.0-9]{2,40})`,
		),
		numberField("peso_kg",
			func(r *Record) **float64 { return &r.PesoKg },
			`(?i)\bpeso\s*[:\-]?\s*(\d+(?:[.,]\d+)?)\s*(?:kg|quilos?)?`,
			`(?i)\bpesando\s*(\d+(?:[.,]\d+)?)`,
		),
		altura,
		boolField("atividade_sexual",
			func(r *Record) **bool { return &r.AtividadeSexual },
			`(?i)\b(?:atividade sexual|sexualmente ativ[oa]|vida sexual ativa)\s*[:\-]?\s*`+boolAnswer,
		),

		// -- Personal / family cancer history --
		boolField("historico_cancer",
			func(r *Record) **bool { return &r.HistoricoCancer },
			`(?i)\b(?:j[áa] teve c[âa]ncer|teve c[âa]ncer|hist[óo]rico de c[âa]ncer|diagn[óo]stico de c[âa]ncer)\s*[:\-]?\s*`+boolAnswer,
		),
		textField("tipo_cancer",
			func(r *Record) **string { return &r.TipoCancer },
			`(?i)\btipo (?:de|do) c[âa]ncer\s*[:\-]?\s*([^\n,;.0-9]{2,60})`,
			`(?i)\bc[âa]ncer de\s+([a-zà-ÿ]{3,30})`,
		),
		numberField("idade_diagnostico",
			func(r *Record) **float64 { return &r.IdadeDiagnostico },
			`(?i)\bidade (?:no|do|ao) diagn[óo]stico\s*[:\-]?\s*(\d{1,3})`,
			`(?i)\bdiagnosticad[oa] aos\s*(\d{1,3})`,
		),
		boolField("historico_familiar_cancer",
			func(r *Record) **bool { return &r.HistoricoFamiliarCancer },
			`(?i)\b(?:algu[ée]m da fam[íi]lia teve c[âa]ncer|parente (?:com|teve) c[âa]ncer|hist[óo]rico familiar(?: de c[âa]ncer)?)\s*[:\-]?\s*`+boolAnswer,
		),
		enumField("parentesco_cancer",
			func(r *Record) **string { return &r.ParentescoCancer },
			map[string]string{
				"pai": "pai", "mãe": "mãe", "mae": "mãe",
				"irmão": "irmão", "irmao": "irmão", "irmã": "irmã", "irma": "irmã",
				"avô": "avô", "avo": "avô", "avó": "avó",
				"filho": "filho", "filha": "filha", "tio": "tio", "tia": "tia",
			},
			`(?i)\b(?:qual parente|grau de parentesco|parentesco)\s*[:\-]?\s*(pai|m[ãa]e|irm[ãa]o?|av[ôóo]|filh[oa]|ti[oa])\b`,
			`(?i)\b(?:minha|meu)\s+(pai|m[ãa]e|irm[ãa]o?|av[ôóo]|filh[oa]|ti[oa])\s+(?:teve|tem)\s+c[âa]ncer`,
		),
		numberField("idade_diagnostico_parente",
			func(r *Record) **float64 { return &r.IdadeDiagnosticoParente },
			`(?i)\bidade do parente (?:no|ao) diagn[óo]stico\s*[:\-]?\s*(\d{1,3})`,
			`(?i)\bparente (?:foi )?diagnosticad[oa] aos\s*(\d{1,3})`,
		),

		// -- Lifestyle --
		enumField("status_tabagismo",
			func(r *Record) **string { return &r.StatusTabagismo },
			map[string]string{
				"sim": "Sim", "s": "Sim", "fumo": "Sim", "fumante": "Sim",
				"nunca": "Nunca", "não": "Nunca", "nao": "Nunca", "n": "Nunca",
				"ex-fumante": "Ex-fumante", "ex fumante": "Ex-fumante",
				"exfumante": "Ex-fumante", "parei": "Ex-fumante",
				"parei de fumar": "Ex-fumante", "já fumei": "Ex-fumante",
				"ja fumei": "Ex-fumante",
			},
			`(?i)\b(?:fuma ou j[áa] fumou|status de tabagismo|tabagismo|fumante)\s*[:\-]?\s*(sim|s|fumo|nunca|n[ãa]o|n|ex[- ]?fumante|parei(?: de fumar)?|j[áa] fumei)\b`,
		),
		numberField("macos_por_dia",
			func(r *Record) **float64 { return &r.MacosPorDia },
			`(?i)\bma[çc]os?\s+por\s+dia\s*[:\-]?\s*(\d+(?:[.,]\d+)?)`,
			`(?i)\bfum[oa]\s*(\d+(?:[.,]\d+)?)\s*ma[çc]os?`,
		),
		numberField("anos_fumando",
			func(r *Record) **float64 { return &r.AnosFumando },
			`(?i)\banos\s+fumando\s*[:\-]?\s*(\d+(?:[.,]\d+)?)`,
			`(?i)\bfum[oa] h[áa]\s*(\d+(?:[.,]\d+)?)\s*anos`,
		),
		boolField("consumo_alcool",
			func(r *Record) **bool { return &r.ConsumoAlcool },
			`(?i)\b(?:consome [áa]lcool|consumo de [áa]lcool|bebida alco[óo]lica|bebe)\s*[:\-]?\s*`+boolAnswer,
		),
		boolField("pratica_exercicio",
			func(r *Record) **bool { return &r.PraticaExercicio },
			`(?i)\b(?:pratica exerc[íi]cios?|atividade f[íi]sica|exerc[íi]cio regular)\s*[:\-]?\s*`+boolAnswer,
		),

		// -- Sex-specific screening history --
		numberField("idade_primeira_menstruacao",
			func(r *Record) **float64 { return &r.IdadePrimeiraMenstruacao },
			`(?i)\bprimeira menstrua[çc][ãa]o\s*[:\-]?\s*(?:aos\s*)?(\d{1,2})`,
		),
		boolField("ja_engravidou",
			func(r *Record) **bool { return &r.JaEngravidou },
			`(?i)\b(?:j[áa] engravidou|esteve gr[áa]vida|gravidez)\s*[:\-]?\s*`+boolAnswer,
		),
		boolField("uso_anticoncepcional",
			func(r *Record) **bool { return &r.UsoAnticoncepcional },
			`(?i)\b(?:usa |uso de )?(?:anticoncepcional|contraceptivo)\s*[:\-]?\s*`+boolAnswer,
		),
		boolField("fez_papanicolau",
			func(r *Record) **bool { return &r.FezPapanicolau },
			`(?i)\b(?:fez |j[áa] fez )?(?:papanicolau|preventivo)\s*[:\-]?\s*`+boolAnswer,
		),
		numberField("ano_papanicolau",
			func(r *Record) **float64 { return &r.AnoPapanicolau },
			`(?i)\bano do (?:[úu]ltimo )?papanicolau\s*[:\-]?\s*((?:19|20)\d{2})`,
			`(?i)\bpapanicolau em\s*((?:19|20)\d{2})`,
		),
		boolField("fez_mamografia",
			func(r *Record) **bool { return &r.FezMamografia },
			`(?i)\b(?:fez |j[áa] fez )?mamografia\s*[:\-]?\s*`+boolAnswer,
		),
		numberField("ano_mamografia",
			func(r *Record) **float64 { return &r.AnoMamografia },
			`(?i)\bano da (?:[úu]ltima )?mamografia\s*[:\-]?\s*((?:19|20)\d{2})`,
			`(?i)\bmamografia em\s*((?:19|20)\d{2})`,
		),
		boolField("fez_exame_prostata",
			func(r *Record) **bool { return &r.FezExameProstata },
			`(?i)\b(?:fez |j[áa] fez )?(?:exame de pr[óo]stata|psa|toque retal)\s*[:\-]?\s*`+boolAnswer,
		),
		numberField("ano_exame_prostata",
			func(r *Record) **float64 { return &r.AnoExameProstata },
			`(?i)\bano do (?:[úu]ltimo )?exame de pr[óo]stata\s*[:\-]?\s*((?:19|20)\d{2})`,
			`(?i)\bexame de pr[óo]stata em\s*((?:19|20)\d{2})`,
		),

		// -- Colorectal screening --
		boolField("fez_colonoscopia",
			func(r *Record) **bool { return &r.FezColonoscopia },
			`(?i)\b(?:fez |j[áa] fez )?colonoscopia\s*[:\-]?\s*`+boolAnswer,
		),
		numberField("ano_colonoscopia",
			func(r *Record) **float64 { return &r.AnoColonoscopia },
			`(?i)\bano da (?:[úu]ltima )?colonoscopia\s*[:\-]?\s*((?:19|20)\d{2})`,
			`(?i)\bcolonoscopia em\s*((?:19|20)\d{2})`,
		),

		// -- Alert symptoms --
		boolField("sangramento_anormal",
			func(r *Record) **bool { return &r.SangramentoAnormal },
			`(?i)\bsangramento(?:\s+anormal|\s+fora do normal)?\s*[:\-]?\s*`+boolAnswer,
		),
		boolField("tosse_persistente",
			func(r *Record) **bool { return &r.TossePersistente },
			`(?i)\btosse(?:\s+persistente|\s+h[áa] semanas)?\s*[:\-]?\s*`+boolAnswer,
		),
		boolField("nodulos_palpaveis",
			func(r *Record) **bool { return &r.NodulosPalpaveis },
			`(?i)\b(?:n[óo]dulos?(?:\s+palp[áa]veis?)?|caro[çc]os?)\s*[:\-]?\s*`+boolAnswer,
		),
		boolField("perda_peso_nao_intencional",
			func(r *Record) **bool { return &r.PerdaPesoNaoIntencional },
			`(?i)\b(?:perda de peso|emagrecimento)(?:\s+n[ãa]o intencional|\s+sem causa(?: aparente)?)?\s*[:\-]?\s*`+boolAnswer,
		),
		boolField("alteracao_intestinal",
			func(r *Record) **bool { return &r.AlteracaoIntestinal },
			`(?i)\b(?:altera[çc][ãa]o intestinal|altera[çc][õo]es intestinais|sangue nas fezes|h[áa]bito intestinal alterado)\s*[:\-]?\s*`+boolAnswer,
		),
	}
}
