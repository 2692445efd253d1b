// Package submission is the entry point of the questionnaire core: it
// takes one partial payload, runs extraction, the progressive merge, the
// rule engine and the alert trigger, and assembles the response.
package submission

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rastreio/rastreio/internal/domain/alert"
	"github.com/rastreio/rastreio/internal/domain/record"
	"github.com/rastreio/rastreio/internal/domain/screening"
	"github.com/rastreio/rastreio/internal/platform/textgen"
)

// Payload is one progressive submission. Any subset of the members may be
// present: directly-structured field values, free text typed by the
// subject, an audio clip to transcribe, and/or a full narrative summary.
type Payload struct {
	Fields      *record.Record `json:"fields,omitempty"`
	FreeText    string         `json:"free_text,omitempty"`
	AudioBase64 string         `json:"audio_base64,omitempty"`
	Narrative   string         `json:"narrative,omitempty"`
}

// Result is the full response for one processed submission.
type Result struct {
	Record          *record.Record             `json:"record"`
	Risk            screening.Assessment       `json:"risk"`
	Progress        screening.Progress         `json:"progress"`
	Recommendations []screening.Recommendation `json:"recommendations"`
	Alert           alert.Result               `json:"alert"`
}

// Service orchestrates the submission pipeline.
type Service struct {
	store     *record.Store
	extractor *record.Extractor
	trigger   *alert.Trigger
	generator textgen.Generator
	logger    zerolog.Logger
	now       func() time.Time
}

// NewService wires the pipeline. generator may be textgen.Disabled{}.
func NewService(store *record.Store, extractor *record.Extractor, trigger *alert.Trigger, generator textgen.Generator, logger zerolog.Logger) *Service {
	return &Service{
		store:     store,
		extractor: extractor,
		trigger:   trigger,
		generator: generator,
		logger:    logger,
		now:       time.Now,
	}
}

// SetClock overrides the service's clock. Intended for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// current loads the subject's record and recomputes its derived fields,
// so age-based rules stay correct for subjects who crossed a birthday
// since their last submission.
func (s *Service) current(ctx context.Context, subjectID uuid.UUID) (*record.Record, error) {
	r, err := s.store.Get(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	record.Derive(r, s.now().UTC())
	return r, nil
}

// Process runs one submission through extract, merge, derive, score,
// alert-check and recommend. A payload with zero recognizable fields still
// succeeds and returns the unchanged record view; only store or dispatch
// failures surface as errors.
func (s *Service) Process(ctx context.Context, subjectID uuid.UUID, p Payload) (*Result, error) {
	if subjectID == uuid.Nil {
		return nil, fmt.Errorf("subject id is required")
	}

	partial := &record.Record{}

	freeText := p.FreeText
	if p.AudioBase64 != "" {
		transcript, err := s.generator.Transcribe(ctx, p.AudioBase64)
		if err != nil {
			// Transcription is best effort: the rest of the payload
			// still counts.
			s.logger.Warn().Err(err).
				Str("subject_id", subjectID.String()).
				Msg("audio transcription unavailable")
		} else {
			freeText = strings.TrimSpace(freeText + "\n" + transcript)
		}
	}
	if freeText != "" {
		record.ApplyPartial(partial, s.extractor.Extract(freeText))
	}
	if p.Narrative != "" {
		record.ApplyPartial(partial, s.extractor.Extract(p.Narrative))
		narrative := p.Narrative
		partial.ResumoNarrativo = &narrative
	}
	// Structured values win over anything extracted from text.
	if p.Fields != nil {
		record.ApplyPartial(partial, p.Fields)
	}

	merged, err := s.store.Merge(ctx, subjectID, partial)
	if err != nil {
		return nil, err
	}

	assessment := screening.Score(merged)
	progress := screening.Track(merged)

	alertRes, err := s.trigger.Evaluate(ctx, merged)
	if err != nil {
		return nil, err
	}
	if alertRes.Dispatched {
		// Pick up the sent marker the trigger just persisted.
		if cur, err := s.store.Get(ctx, subjectID); err == nil {
			merged = cur
		}
	}

	return &Result{
		Record:          merged,
		Risk:            assessment,
		Progress:        progress,
		Recommendations: screening.Recommend(merged, assessment, progress),
		Alert:           alertRes,
	}, nil
}

// Record returns the subject's current merged record.
func (s *Service) Record(ctx context.Context, subjectID uuid.UUID) (*record.Record, error) {
	return s.current(ctx, subjectID)
}

// Risk scores the subject's current record.
func (s *Service) Risk(ctx context.Context, subjectID uuid.UUID) (screening.Assessment, error) {
	r, err := s.current(ctx, subjectID)
	if err != nil {
		return screening.Assessment{}, err
	}
	return screening.Score(r), nil
}

// Progress reports the subject's questionnaire completion.
func (s *Service) Progress(ctx context.Context, subjectID uuid.UUID) (screening.Progress, error) {
	r, err := s.store.Get(ctx, subjectID)
	if err != nil {
		return screening.Progress{}, err
	}
	return screening.Track(r), nil
}

// Recommendations builds the action list for the subject's current record.
func (s *Service) Recommendations(ctx context.Context, subjectID uuid.UUID) ([]screening.Recommendation, error) {
	r, err := s.current(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	return screening.Recommend(r, screening.Score(r), screening.Track(r)), nil
}

// RefreshNarrative asks the text generator for a fresh summary of the
// subject's answers and stores it on the record. A generator failure
// surfaces to the caller as "no narrative available".
func (s *Service) RefreshNarrative(ctx context.Context, subjectID uuid.UUID) (*record.Record, error) {
	r, err := s.store.Get(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	narrative, err := s.generator.GenerateText(ctx, narrativePrompt(r))
	if err != nil {
		return nil, fmt.Errorf("generate narrative: %w", err)
	}
	narrative = strings.TrimSpace(narrative)
	if narrative == "" {
		return r, nil
	}
	return s.store.Merge(ctx, subjectID, &record.Record{ResumoNarrativo: &narrative})
}

// narrativePrompt lists the answered fields for the generator to
// summarize.
func narrativePrompt(r *record.Record) string {
	var b strings.Builder
	b.WriteString("Resuma em um parágrafo o questionário de saúde a seguir:\n")
	for _, def := range record.Catalog() {
		if !def.Filled(r) {
			continue
		}
		fmt.Fprintf(&b, "- %s: %v\n", def.Name, def.Value(r))
	}
	return b.String()
}
