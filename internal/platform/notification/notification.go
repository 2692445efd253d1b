// Package notification provides outbound email dispatch with template
// rendering and per-recipient fan-out. Delivery failures are reported per
// recipient, never retried here.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// EmailSender is the interface for sending a single email message.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// DispatchResult reports per-recipient delivery outcome of one dispatch.
type DispatchResult struct {
	Sent   []string `json:"sent"`
	Failed []string `json:"failed"`
}

// Dispatcher fans a message out to a recipient list through an EmailSender.
type Dispatcher struct {
	sender EmailSender
	logger zerolog.Logger
}

// NewDispatcher creates a Dispatcher over the given sender.
func NewDispatcher(sender EmailSender, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, logger: logger}
}

// Dispatch sends subject/body to every recipient. A recipient failure does
// not stop the fan-out; it lands in the Failed list of the result.
func (d *Dispatcher) Dispatch(ctx context.Context, recipients []string, subject, body string) DispatchResult {
	var res DispatchResult
	for _, to := range recipients {
		if err := d.sender.SendEmail(ctx, to, subject, body); err != nil {
			d.logger.Error().Err(err).Str("recipient", to).Msg("notification delivery failed")
			res.Failed = append(res.Failed, to)
			continue
		}
		res.Sent = append(res.Sent, to)
	}
	return res
}

// ---------------------------------------------------------------------------
// Template Engine
// ---------------------------------------------------------------------------

// Template defines a reusable notification template.
type Template struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// TemplateEngine manages notification templates and renders them with data.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewTemplateEngine creates a TemplateEngine with the built-in templates
// pre-registered.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{
		templates: make(map[string]*Template),
	}
	e.registerBuiltIn()
	return e
}

func (e *TemplateEngine) registerBuiltIn() {
	builtIn := []Template{
		{
			ID:      "priority-alert",
			Name:    "Priority Care Alert",
			Subject: "Alerta prioritário: {{nome}}",
			Body:    "O questionário de {{nome}} (id {{subject_id}}) relatou sinais de alerta: {{sinais}}. Avaliação médica prioritária é recomendada.",
		},
		{
			ID:      "screening-reminder",
			Name:    "Screening Reminder",
			Subject: "Lembrete de rastreamento: {{exame}}",
			Body:    "Olá {{nome}}, de acordo com o seu questionário você é elegível para {{exame}}. Recomendação: {{periodicidade}}.",
		},
		{
			ID:      "progress-nudge",
			Name:    "Questionnaire Progress Nudge",
			Subject: "Seu questionário de saúde está {{percentual}}% completo",
			Body:    "Olá {{nome}}, continue preenchendo o questionário de saúde para receber recomendações mais precisas.",
		},
	}
	for i := range builtIn {
		t := builtIn[i]
		e.templates[t.ID] = &t
	}
}

// RegisterTemplate adds or replaces a template in the engine.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = &t
}

// Render looks up a template by ID and performs {{key}} replacement using
// the supplied data map. Keys present in the template but absent from data
// are left as-is.
func (e *TemplateEngine) Render(templateID string, data map[string]string) (subject, body string, err error) {
	e.mu.RLock()
	t, ok := e.templates[templateID]
	e.mu.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("template %q not found", templateID)
	}

	subject = t.Subject
	body = t.Body
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		subject = strings.ReplaceAll(subject, placeholder, v)
		body = strings.ReplaceAll(body, placeholder, v)
	}
	return subject, body, nil
}

// ---------------------------------------------------------------------------
// Senders
// ---------------------------------------------------------------------------

// LogSender is the development EmailSender: it logs the message instead of
// delivering it.
type LogSender struct {
	Logger zerolog.Logger
}

// SendEmail logs the outbound message and reports success.
func (s *LogSender) SendEmail(_ context.Context, to, subject, _ string) error {
	s.Logger.Info().Str("to", to).Str("subject", subject).Msg("email (log sender)")
	return nil
}

// EmailCall records a single call to SendEmail.
type EmailCall struct {
	To      string
	Subject string
	Body    string
}

// MockEmailSender is a test double for EmailSender. FailFor lists
// recipients whose delivery must fail.
type MockEmailSender struct {
	mu      sync.Mutex
	calls   []EmailCall
	FailFor map[string]bool
}

// SendEmail records the call and fails for recipients listed in FailFor.
func (m *MockEmailSender) SendEmail(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, EmailCall{To: to, Subject: subject, Body: body})
	if m.FailFor[to] {
		return errors.New("delivery refused")
	}
	return nil
}

// Calls returns a copy of recorded email calls.
func (m *MockEmailSender) Calls() []EmailCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EmailCall, len(m.calls))
	copy(out, m.calls)
	return out
}
