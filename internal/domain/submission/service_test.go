package submission

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rastreio/rastreio/internal/domain/alert"
	"github.com/rastreio/rastreio/internal/domain/record"
	"github.com/rastreio/rastreio/internal/domain/screening"
	"github.com/rastreio/rastreio/internal/platform/notification"
	"github.com/rastreio/rastreio/internal/platform/textgen"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool      { return &b }

type mockRepo struct {
	mu   sync.Mutex
	recs map[uuid.UUID]*record.Record
}

func newMockRepo() *mockRepo {
	return &mockRepo{recs: make(map[uuid.UUID]*record.Record)}
}

func (m *mockRepo) Get(_ context.Context, id uuid.UUID) (*record.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[id]
	if !ok {
		return nil, record.ErrNotFound
	}
	c := *r
	return &c, nil
}

func (m *mockRepo) Put(_ context.Context, r *record.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *r
	c.Version++
	m.recs[r.SubjectID] = &c
	r.Version = c.Version
	return nil
}

type testEnv struct {
	svc    *Service
	sender *notification.MockEmailSender
	gen    *textgen.Mock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zerolog.Nop()
	clock := func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	}

	store := record.NewStore(newMockRepo(), logger)
	store.SetClock(clock)

	sender := &notification.MockEmailSender{}
	trigger := alert.NewTrigger(store,
		notification.NewDispatcher(sender, logger),
		notification.NewTemplateEngine(),
		[]string{"care@example.com"}, logger)
	trigger.SetClock(clock)

	gen := &textgen.Mock{}
	svc := NewService(store, record.NewExtractor(logger), trigger, gen, logger)
	svc.SetClock(clock)
	return &testEnv{svc: svc, sender: sender, gen: gen}
}

func TestProcessEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	subject := uuid.New()

	res, err := env.svc.Process(context.Background(), subject, Payload{
		Fields: &record.Record{
			SexoBiologico:   strPtr("F"),
			DataNascimento:  strPtr("1980-01-01"),
			AtividadeSexual: boolPtr(true),
		},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if !res.Risk.DataSufficient {
		t.Error("data_sufficient = false, want true")
	}
	if !res.Risk.Eligibility.Cervical {
		t.Error("eligibility.cervical = false, want true")
	}
	if !res.Risk.Eligibility.Breast || !res.Risk.Eligibility.Colorectal {
		t.Errorf("eligibility = %+v", res.Risk.Eligibility)
	}
	if res.Progress.Percent != 8.6 {
		t.Errorf("progress.percent = %v, want 8.6", res.Progress.Percent)
	}
	if res.Record.Idade == nil || *res.Record.Idade != 46 {
		t.Errorf("idade = %v, want 46", res.Record.Idade)
	}
	if res.Alert.Triggered {
		t.Error("alert triggered without a condition")
	}
	if len(res.Recommendations) == 0 {
		t.Error("no recommendations")
	}
}

func TestProcessFreeTextExtraction(t *testing.T) {
	env := newTestEnv(t)
	subject := uuid.New()

	res, err := env.svc.Process(context.Background(), subject, Payload{
		FreeText: "peso: 72,5 kg e altura: 1,75. Fuma ou já fumou: nunca.",
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if res.Record.PesoKg == nil || *res.Record.PesoKg != 72.5 {
		t.Errorf("peso_kg = %v, want 72.5", res.Record.PesoKg)
	}
	if res.Record.AlturaCm == nil || *res.Record.AlturaCm != 175 {
		t.Errorf("altura_cm = %v, want 175", res.Record.AlturaCm)
	}
	if res.Record.IMC == nil || *res.Record.IMC != 23.67 {
		t.Errorf("imc = %v, want 23.67", res.Record.IMC)
	}
	if res.Record.Smoking() != "Nunca" {
		t.Errorf("status_tabagismo = %q, want Nunca", res.Record.Smoking())
	}
}

func TestProcessStructuredWinsOverText(t *testing.T) {
	env := newTestEnv(t)
	subject := uuid.New()

	res, err := env.svc.Process(context.Background(), subject, Payload{
		FreeText: "peso: 70",
		Fields:   &record.Record{PesoKg: f64Ptr(72.5)},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Record.PesoKg == nil || *res.Record.PesoKg != 72.5 {
		t.Errorf("peso_kg = %v, structured value lost", res.Record.PesoKg)
	}
}

func TestProcessAudioTranscript(t *testing.T) {
	env := newTestEnv(t)
	env.gen.TranscribeOut = "fuma ou já fumou: sim"
	subject := uuid.New()

	res, err := env.svc.Process(context.Background(), subject, Payload{
		AudioBase64: "ZmFrZS1hdWRpbw==",
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Record.Smoking() != "Sim" {
		t.Errorf("status_tabagismo = %q, want Sim", res.Record.Smoking())
	}
	if got := env.gen.Audio(); len(got) != 1 {
		t.Errorf("transcribe calls = %d, want 1", len(got))
	}
}

func TestProcessTranscriptionFailureIsNotFatal(t *testing.T) {
	env := newTestEnv(t)
	env.gen.TranscribeErr = errors.New("model offline")
	subject := uuid.New()

	res, err := env.svc.Process(context.Background(), subject, Payload{
		AudioBase64: "ZmFrZS1hdWRpbw==",
		Fields:      &record.Record{Nome: strPtr("Maria")},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Record.Nome == nil || *res.Record.Nome != "Maria" {
		t.Error("structured fields lost on transcription failure")
	}
}

func TestProcessNarrative(t *testing.T) {
	env := newTestEnv(t)
	subject := uuid.New()

	narrative := "Paciente do sexo: feminino, nascimento: 15/03/1990, relata que consome álcool: sim."
	res, err := env.svc.Process(context.Background(), subject, Payload{Narrative: narrative})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if res.Record.ResumoNarrativo == nil || *res.Record.ResumoNarrativo != narrative {
		t.Error("narrative not stored on the record")
	}
	if res.Record.Sexo() != "F" {
		t.Errorf("sexo = %q, want F from narrative", res.Record.Sexo())
	}
	if res.Record.DataNascimento == nil || *res.Record.DataNascimento != "1990-03-15" {
		t.Errorf("data_nascimento = %v", res.Record.DataNascimento)
	}
	if !record.Flag(res.Record.ConsumoAlcool) {
		t.Error("consumo_alcool not extracted from narrative")
	}
}

func TestProcessEmptyPayloadSucceeds(t *testing.T) {
	env := newTestEnv(t)
	subject := uuid.New()

	res, err := env.svc.Process(context.Background(), subject, Payload{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Progress.FilledCount != 0 || res.Progress.Category != screening.CategoryInitial {
		t.Errorf("progress = %+v, want empty initial", res.Progress)
	}
	if res.Risk.DataSufficient {
		t.Error("empty record reported scoreable")
	}
}

func TestProcessRejectsNilSubject(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.svc.Process(context.Background(), uuid.Nil, Payload{}); err == nil {
		t.Fatal("Process accepted a nil subject id")
	}
}

func TestProcessAlertDispatchedOnce(t *testing.T) {
	env := newTestEnv(t)
	subject := uuid.New()
	ctx := context.Background()

	res, err := env.svc.Process(ctx, subject, Payload{
		Fields: &record.Record{SangramentoAnormal: boolPtr(true)},
	})
	if err != nil {
		t.Fatalf("first Process: %v", err)
	}
	if !res.Alert.Triggered || !res.Alert.Dispatched {
		t.Fatalf("alert = %+v, want triggered and dispatched", res.Alert)
	}
	if !res.Record.AlertSent() {
		t.Error("response record is missing the sent marker")
	}

	res, err = env.svc.Process(ctx, subject, Payload{
		Fields: &record.Record{Nome: strPtr("Maria")},
	})
	if err != nil {
		t.Fatalf("second Process: %v", err)
	}
	if !res.Alert.Triggered || !res.Alert.AlreadySent || res.Alert.Dispatched {
		t.Fatalf("second alert = %+v, want already_sent", res.Alert)
	}
	if got := len(env.sender.Calls()); got != 1 {
		t.Errorf("dispatches = %d, want 1", got)
	}
}

func TestRiskRecomputesAgeOnRead(t *testing.T) {
	env := newTestEnv(t)
	subject := uuid.New()
	ctx := context.Background()

	// Merged the day before the subject's 45th birthday.
	if _, err := env.svc.Process(ctx, subject, Payload{
		Fields: &record.Record{
			SexoBiologico:  strPtr("M"),
			DataNascimento: strPtr("1981-09-02"),
		},
	}); err != nil {
		t.Fatalf("Process: %v", err)
	}

	a, err := env.svc.Risk(ctx, subject)
	if err != nil {
		t.Fatalf("Risk: %v", err)
	}
	if a.Eligibility.Colorectal {
		t.Error("colorectal eligible before the 45th birthday")
	}

	// The birthday passes without a new submission.
	env.svc.SetClock(func() time.Time {
		return time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)
	})
	a, err = env.svc.Risk(ctx, subject)
	if err != nil {
		t.Fatalf("Risk after birthday: %v", err)
	}
	if !a.Eligibility.Colorectal {
		t.Error("colorectal eligibility not recomputed after the birthday")
	}

	r, err := env.svc.Record(ctx, subject)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if r.Idade == nil || *r.Idade != 45 {
		t.Errorf("idade = %v, want 45", r.Idade)
	}
}

func TestRefreshNarrative(t *testing.T) {
	env := newTestEnv(t)
	env.gen.GenerateOut = "Paciente com questionário em preenchimento."
	subject := uuid.New()
	ctx := context.Background()

	if _, err := env.svc.Process(ctx, subject, Payload{
		Fields: &record.Record{Nome: strPtr("Maria")},
	}); err != nil {
		t.Fatalf("Process: %v", err)
	}

	r, err := env.svc.RefreshNarrative(ctx, subject)
	if err != nil {
		t.Fatalf("RefreshNarrative: %v", err)
	}
	if r.ResumoNarrativo == nil || *r.ResumoNarrativo != env.gen.GenerateOut {
		t.Errorf("resumo_narrativo = %v", r.ResumoNarrativo)
	}
	if prompts := env.gen.Prompts(); len(prompts) != 1 {
		t.Fatalf("prompts = %d, want 1", len(prompts))
	}
}

func TestRefreshNarrativeDisabled(t *testing.T) {
	env := newTestEnv(t)
	subject := uuid.New()
	ctx := context.Background()

	env.svc.generator = textgen.Disabled{}
	if _, err := env.svc.Process(ctx, subject, Payload{}); err != nil {
		t.Fatalf("Process: %v", err)
	}

	_, err := env.svc.RefreshNarrative(ctx, subject)
	if !errors.Is(err, textgen.ErrDisabled) {
		t.Fatalf("err = %v, want ErrDisabled", err)
	}
}
