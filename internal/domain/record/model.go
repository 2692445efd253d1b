package record

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no record exists for a subject.
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict signals that a concurrent writer persisted the
	// record between our read and our write.
	ErrVersionConflict = errors.New("record version conflict")
	// ErrAlertAlreadySent guards the write-once alert dispatch marker.
	ErrAlertAlreadySent = errors.New("alert notification already sent")
)

// Record maps to the questionnaire_record table. One record per subject,
// created on the first partial submission and updated by every subsequent
// one. Tracked fields are pointer-typed: nil means the subject has not
// provided the answer yet.
type Record struct {
	SubjectID uuid.UUID `db:"subject_id" json:"subject_id"`

	// Identity / demographics
	Nome            *string  `db:"nome" json:"nome,omitempty"`
	DataNascimento  *string  `db:"data_nascimento" json:"data_nascimento,omitempty"`
	SexoBiologico   *string  `db:"sexo_biologico" json:"sexo_biologico,omitempty"`
	Cidade          *string  `db:"cidade" json:"cidade,omitempty"`
	Estado          *string  `db:"estado" json:"estado,omitempty"`
	PesoKg          *float64 `db:"peso_kg" json:"peso_kg,omitempty"`
	AlturaCm        *float64 `db:"altura_cm" json:"altura_cm,omitempty"`
	AtividadeSexual *bool    `db:"atividade_sexual" json:"atividade_sexual,omitempty"`

	// Personal / family cancer history
	HistoricoCancer         *bool    `db:"historico_cancer" json:"historico_cancer,omitempty"`
	TipoCancer              *string  `db:"tipo_cancer" json:"tipo_cancer,omitempty"`
	IdadeDiagnostico        *float64 `db:"idade_diagnostico" json:"idade_diagnostico,omitempty"`
	HistoricoFamiliarCancer *bool    `db:"historico_familiar_cancer" json:"historico_familiar_cancer,omitempty"`
	ParentescoCancer        *string  `db:"parentesco_cancer" json:"parentesco_cancer,omitempty"`
	IdadeDiagnosticoParente *float64 `db:"idade_diagnostico_parente" json:"idade_diagnostico_parente,omitempty"`

	// Lifestyle
	StatusTabagismo  *string  `db:"status_tabagismo" json:"status_tabagismo,omitempty"`
	MacosPorDia      *float64 `db:"macos_por_dia" json:"macos_por_dia,omitempty"`
	AnosFumando      *float64 `db:"anos_fumando" json:"anos_fumando,omitempty"`
	ConsumoAlcool    *bool    `db:"consumo_alcool" json:"consumo_alcool,omitempty"`
	PraticaExercicio *bool    `db:"pratica_exercicio" json:"pratica_exercicio,omitempty"`

	// Sex-specific screening history
	IdadePrimeiraMenstruacao *float64 `db:"idade_primeira_menstruacao" json:"idade_primeira_menstruacao,omitempty"`
	JaEngravidou             *bool    `db:"ja_engravidou" json:"ja_engravidou,omitempty"`
	UsoAnticoncepcional      *bool    `db:"uso_anticoncepcional" json:"uso_anticoncepcional,omitempty"`
	FezPapanicolau           *bool    `db:"fez_papanicolau" json:"fez_papanicolau,omitempty"`
	AnoPapanicolau           *float64 `db:"ano_papanicolau" json:"ano_papanicolau,omitempty"`
	FezMamografia            *bool    `db:"fez_mamografia" json:"fez_mamografia,omitempty"`
	AnoMamografia            *float64 `db:"ano_mamografia" json:"ano_mamografia,omitempty"`
	FezExameProstata         *bool    `db:"fez_exame_prostata" json:"fez_exame_prostata,omitempty"`
	AnoExameProstata         *float64 `db:"ano_exame_prostata" json:"ano_exame_prostata,omitempty"`

	// Colorectal screening
	FezColonoscopia *bool    `db:"fez_colonoscopia" json:"fez_colonoscopia,omitempty"`
	AnoColonoscopia *float64 `db:"ano_colonoscopia" json:"ano_colonoscopia,omitempty"`

	// Alert symptoms
	SangramentoAnormal      *bool `db:"sangramento_anormal" json:"sangramento_anormal,omitempty"`
	TossePersistente        *bool `db:"tosse_persistente" json:"tosse_persistente,omitempty"`
	NodulosPalpaveis        *bool `db:"nodulos_palpaveis" json:"nodulos_palpaveis,omitempty"`
	PerdaPesoNaoIntencional *bool `db:"perda_peso_nao_intencional" json:"perda_peso_nao_intencional,omitempty"`
	AlteracaoIntestinal     *bool `db:"alteracao_intestinal" json:"alteracao_intestinal,omitempty"`

	// Derived fields: recomputed after every merge, never merged directly.
	Idade       *int     `db:"idade" json:"idade,omitempty"`
	IMC         *float64 `db:"imc" json:"imc,omitempty"`
	Idade45Mais *bool    `db:"idade_45_mais" json:"idade_45_mais,omitempty"`

	// System fields
	ResumoNarrativo   *string    `db:"resumo_narrativo" json:"resumo_narrativo,omitempty"`
	AlertaPrioritario bool       `db:"alerta_prioritario" json:"alerta_prioritario"`
	AlertaEnviadoEm   *time.Time `db:"alerta_enviado_em" json:"alerta_enviado_em,omitempty"`
	CriadoEm          time.Time  `db:"criado_em" json:"criado_em"`
	AtualizadoEm      time.Time  `db:"atualizado_em" json:"atualizado_em"`

	// Version backs the optimistic-concurrency check in the repository.
	// Zero means the record has never been persisted.
	Version int64 `db:"version" json:"-"`
}

// New creates a record for a subject with the mandatory defaults applied.
// Defaults are applied here and only here, at record birth: the empty sex
// string and the false flags are explicitly present so downstream scoring
// can read them without nil checks, while still counting as unanswered.
func New(subjectID uuid.UUID, now time.Time) *Record {
	sexo := ""
	ativo := false
	return &Record{
		SubjectID:         subjectID,
		SexoBiologico:     &sexo,
		AtividadeSexual:   &ativo,
		AlertaPrioritario: false,
		CriadoEm:          now,
		AtualizadoEm:      now,
	}
}

// AlertSent reports whether the priority-care notification for this record
// has already been dispatched.
func (r *Record) AlertSent() bool {
	return r.AlertaEnviadoEm != nil
}

// MarkAlertSent sets the write-once dispatch marker. It must be called only
// after the notification dispatcher confirmed at least one recipient.
func (r *Record) MarkAlertSent(at time.Time) error {
	if r.AlertaEnviadoEm != nil {
		return ErrAlertAlreadySent
	}
	sent := at
	r.AlertaEnviadoEm = &sent
	return nil
}

// Sexo returns the biological sex value, empty when unanswered.
func (r *Record) Sexo() string {
	if r.SexoBiologico == nil {
		return ""
	}
	return *r.SexoBiologico
}

// Smoking returns the smoking status label, empty when unanswered.
func (r *Record) Smoking() string {
	if r.StatusTabagismo == nil {
		return ""
	}
	return *r.StatusTabagismo
}

// Flag reads an optional boolean field, treating nil as false. A false
// answer carries no more information than no answer in this model.
func Flag(b *bool) bool {
	return b != nil && *b
}
