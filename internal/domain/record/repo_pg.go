package record

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns the PostgreSQL-backed record repository.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const recordCols = `subject_id, nome, data_nascimento, sexo_biologico, cidade, estado,
	peso_kg, altura_cm, atividade_sexual,
	historico_cancer, tipo_cancer, idade_diagnostico,
	historico_familiar_cancer, parentesco_cancer, idade_diagnostico_parente,
	status_tabagismo, macos_por_dia, anos_fumando, consumo_alcool, pratica_exercicio,
	idade_primeira_menstruacao, ja_engravidou, uso_anticoncepcional,
	fez_papanicolau, ano_papanicolau, fez_mamografia, ano_mamografia,
	fez_exame_prostata, ano_exame_prostata, fez_colonoscopia, ano_colonoscopia,
	sangramento_anormal, tosse_persistente, nodulos_palpaveis,
	perda_peso_nao_intencional, alteracao_intestinal,
	idade, imc, idade_45_mais,
	resumo_narrativo, alerta_prioritario, alerta_enviado_em,
	criado_em, atualizado_em, version`

func scanRecord(row pgx.Row) (*Record, error) {
	var r Record
	err := row.Scan(&r.SubjectID, &r.Nome, &r.DataNascimento, &r.SexoBiologico, &r.Cidade, &r.Estado,
		&r.PesoKg, &r.AlturaCm, &r.AtividadeSexual,
		&r.HistoricoCancer, &r.TipoCancer, &r.IdadeDiagnostico,
		&r.HistoricoFamiliarCancer, &r.ParentescoCancer, &r.IdadeDiagnosticoParente,
		&r.StatusTabagismo, &r.MacosPorDia, &r.AnosFumando, &r.ConsumoAlcool, &r.PraticaExercicio,
		&r.IdadePrimeiraMenstruacao, &r.JaEngravidou, &r.UsoAnticoncepcional,
		&r.FezPapanicolau, &r.AnoPapanicolau, &r.FezMamografia, &r.AnoMamografia,
		&r.FezExameProstata, &r.AnoExameProstata, &r.FezColonoscopia, &r.AnoColonoscopia,
		&r.SangramentoAnormal, &r.TossePersistente, &r.NodulosPalpaveis,
		&r.PerdaPesoNaoIntencional, &r.AlteracaoIntestinal,
		&r.Idade, &r.IMC, &r.Idade45Mais,
		&r.ResumoNarrativo, &r.AlertaPrioritario, &r.AlertaEnviadoEm,
		&r.CriadoEm, &r.AtualizadoEm, &r.Version)
	return &r, err
}

func (p *repoPG) Get(ctx context.Context, subjectID uuid.UUID) (*Record, error) {
	r, err := scanRecord(p.pool.QueryRow(ctx,
		`SELECT `+recordCols+` FROM questionnaire_record WHERE subject_id = $1`, subjectID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return r, nil
}

func (p *repoPG) Put(ctx context.Context, r *Record) error {
	if r.Version == 0 {
		tag, err := p.pool.Exec(ctx, `
			INSERT INTO questionnaire_record (`+recordCols+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
				$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33,$34,$35,$36,
				$37,$38,$39,$40,$41,$42,$43,$44,1)
			ON CONFLICT (subject_id) DO NOTHING`,
			r.SubjectID, r.Nome, r.DataNascimento, r.SexoBiologico, r.Cidade, r.Estado,
			r.PesoKg, r.AlturaCm, r.AtividadeSexual,
			r.HistoricoCancer, r.TipoCancer, r.IdadeDiagnostico,
			r.HistoricoFamiliarCancer, r.ParentescoCancer, r.IdadeDiagnosticoParente,
			r.StatusTabagismo, r.MacosPorDia, r.AnosFumando, r.ConsumoAlcool, r.PraticaExercicio,
			r.IdadePrimeiraMenstruacao, r.JaEngravidou, r.UsoAnticoncepcional,
			r.FezPapanicolau, r.AnoPapanicolau, r.FezMamografia, r.AnoMamografia,
			r.FezExameProstata, r.AnoExameProstata, r.FezColonoscopia, r.AnoColonoscopia,
			r.SangramentoAnormal, r.TossePersistente, r.NodulosPalpaveis,
			r.PerdaPesoNaoIntencional, r.AlteracaoIntestinal,
			r.Idade, r.IMC, r.Idade45Mais,
			r.ResumoNarrativo, r.AlertaPrioritario, r.AlertaEnviadoEm,
			r.CriadoEm, r.AtualizadoEm)
		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
		if tag.RowsAffected() == 0 {
			// Another writer created the row first.
			return ErrVersionConflict
		}
		r.Version = 1
		return nil
	}

	tag, err := p.pool.Exec(ctx, `
		UPDATE questionnaire_record SET
			nome=$2, data_nascimento=$3, sexo_biologico=$4, cidade=$5, estado=$6,
			peso_kg=$7, altura_cm=$8, atividade_sexual=$9,
			historico_cancer=$10, tipo_cancer=$11, idade_diagnostico=$12,
			historico_familiar_cancer=$13, parentesco_cancer=$14, idade_diagnostico_parente=$15,
			status_tabagismo=$16, macos_por_dia=$17, anos_fumando=$18, consumo_alcool=$19,
			pratica_exercicio=$20, idade_primeira_menstruacao=$21, ja_engravidou=$22,
			uso_anticoncepcional=$23, fez_papanicolau=$24, ano_papanicolau=$25,
			fez_mamografia=$26, ano_mamografia=$27, fez_exame_prostata=$28,
			ano_exame_prostata=$29, fez_colonoscopia=$30, ano_colonoscopia=$31,
			sangramento_anormal=$32, tosse_persistente=$33, nodulos_palpaveis=$34,
			perda_peso_nao_intencional=$35, alteracao_intestinal=$36,
			idade=$37, imc=$38, idade_45_mais=$39,
			resumo_narrativo=$40, alerta_prioritario=$41, alerta_enviado_em=$42,
			atualizado_em=$43, version=version+1
		WHERE subject_id = $1 AND version = $44`,
		r.SubjectID, r.Nome, r.DataNascimento, r.SexoBiologico, r.Cidade, r.Estado,
		r.PesoKg, r.AlturaCm, r.AtividadeSexual,
		r.HistoricoCancer, r.TipoCancer, r.IdadeDiagnostico,
		r.HistoricoFamiliarCancer, r.ParentescoCancer, r.IdadeDiagnosticoParente,
		r.StatusTabagismo, r.MacosPorDia, r.AnosFumando, r.ConsumoAlcool, r.PraticaExercicio,
		r.IdadePrimeiraMenstruacao, r.JaEngravidou, r.UsoAnticoncepcional,
		r.FezPapanicolau, r.AnoPapanicolau, r.FezMamografia, r.AnoMamografia,
		r.FezExameProstata, r.AnoExameProstata, r.FezColonoscopia, r.AnoColonoscopia,
		r.SangramentoAnormal, r.TossePersistente, r.NodulosPalpaveis,
		r.PerdaPesoNaoIntencional, r.AlteracaoIntestinal,
		r.Idade, r.IMC, r.Idade45Mais,
		r.ResumoNarrativo, r.AlertaPrioritario, r.AlertaEnviadoEm,
		r.AtualizadoEm, r.Version)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	r.Version++
	return nil
}
