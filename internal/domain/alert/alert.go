// Package alert decides when a questionnaire record requires a priority-
// care notification and drives the at-most-once dispatch for it.
package alert

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rastreio/rastreio/internal/domain/record"
	"github.com/rastreio/rastreio/internal/platform/notification"
)

const alertTemplateID = "priority-alert"

// Dispatcher fans an alert message out to the care-team recipients.
type Dispatcher interface {
	Dispatch(ctx context.Context, recipients []string, subject, body string) notification.DispatchResult
}

// Result reports the outcome of one alert evaluation. Triggered stays true
// for as long as the record meets the alert criteria, even after the
// notification has gone out; AlreadySent tells the two states apart.
type Result struct {
	Triggered   bool     `json:"triggered"`
	Dispatched  bool     `json:"dispatched"`
	AlreadySent bool     `json:"already_sent"`
	Sent        []string `json:"sent,omitempty"`
	Failed      []string `json:"failed,omitempty"`
}

// ShouldAlert reports whether the record meets the priority-care criteria:
// the explicit priority flag or any of the five alert symptoms.
func ShouldAlert(r *record.Record) bool {
	return r.AlertaPrioritario ||
		record.Flag(r.SangramentoAnormal) ||
		record.Flag(r.TossePersistente) ||
		record.Flag(r.NodulosPalpaveis) ||
		record.Flag(r.PerdaPesoNaoIntencional) ||
		record.Flag(r.AlteracaoIntestinal)
}

// Signs returns the names of the alert symptoms currently reported.
func Signs(r *record.Record) []string {
	var signs []string
	for _, s := range []struct {
		name string
		flag *bool
	}{
		{"sangramento_anormal", r.SangramentoAnormal},
		{"tosse_persistente", r.TossePersistente},
		{"nodulos_palpaveis", r.NodulosPalpaveis},
		{"perda_peso_nao_intencional", r.PerdaPesoNaoIntencional},
		{"alteracao_intestinal", r.AlteracaoIntestinal},
	} {
		if record.Flag(s.flag) {
			signs = append(signs, s.name)
		}
	}
	return signs
}

// Trigger owns the dispatch-once path: it renders the alert message, fans
// it out and persists the write-once sent marker.
type Trigger struct {
	store      *record.Store
	dispatcher Dispatcher
	templates  *notification.TemplateEngine
	recipients []string
	logger     zerolog.Logger
	now        func() time.Time
}

// NewTrigger creates a Trigger. recipients is the care-team address list;
// an empty list disables dispatch but not evaluation.
func NewTrigger(store *record.Store, dispatcher Dispatcher, templates *notification.TemplateEngine, recipients []string, logger zerolog.Logger) *Trigger {
	return &Trigger{
		store:      store,
		dispatcher: dispatcher,
		templates:  templates,
		recipients: recipients,
		logger:     logger,
		now:        time.Now,
	}
}

// SetClock overrides the trigger's clock. Intended for tests.
func (t *Trigger) SetClock(now func() time.Time) {
	t.now = now
}

// Evaluate checks the record against the alert criteria and, when they are
// met and no notification has been sent yet, dispatches one. The sent
// marker is persisted only after at least one recipient accepted delivery;
// a fully failed dispatch leaves it unset so a later submission retries.
func (t *Trigger) Evaluate(ctx context.Context, r *record.Record) (Result, error) {
	if !ShouldAlert(r) {
		return Result{}, nil
	}
	res := Result{Triggered: true}

	if r.AlertSent() {
		res.AlreadySent = true
		return res, nil
	}
	if len(t.recipients) == 0 {
		t.logger.Warn().
			Str("subject_id", r.SubjectID.String()).
			Msg("alert triggered but no recipients configured")
		return res, nil
	}

	subject, body, err := t.templates.Render(alertTemplateID, map[string]string{
		"nome":       displayName(r),
		"subject_id": r.SubjectID.String(),
		"sinais":     strings.Join(Signs(r), ", "),
	})
	if err != nil {
		return res, fmt.Errorf("render alert template: %w", err)
	}

	dr := t.dispatcher.Dispatch(ctx, t.recipients, subject, body)
	res.Sent = dr.Sent
	res.Failed = dr.Failed
	if len(dr.Sent) == 0 {
		t.logger.Error().
			Str("subject_id", r.SubjectID.String()).
			Strs("failed", dr.Failed).
			Msg("alert dispatch failed for every recipient")
		return res, nil
	}

	if _, err := t.store.MarkAlertSent(ctx, r.SubjectID, t.now().UTC()); err != nil {
		// A concurrent evaluation won the race to the marker; the
		// notification is out either way.
		if !errors.Is(err, record.ErrAlertAlreadySent) {
			return res, fmt.Errorf("mark alert sent: %w", err)
		}
	}
	res.Dispatched = true

	t.logger.Info().
		Str("subject_id", r.SubjectID.String()).
		Int("recipients_ok", len(dr.Sent)).
		Int("recipients_failed", len(dr.Failed)).
		Msg("priority alert dispatched")
	return res, nil
}

func displayName(r *record.Record) string {
	if r.Nome != nil && *r.Nome != "" {
		return *r.Nome
	}
	return "paciente"
}
