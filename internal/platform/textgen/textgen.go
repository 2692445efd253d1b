// Package textgen abstracts the AI text-generation collaborator. The core
// treats it as opaque: a failure means "no narrative available", never an
// extraction failure.
package textgen

import (
	"context"
	"errors"
	"sync"
)

// ErrDisabled is returned when no generator backend is configured.
var ErrDisabled = errors.New("text generation disabled")

// Generator produces text from a prompt and transcribes audio payloads.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	Transcribe(ctx context.Context, audioBase64 string) (string, error)
}

// Disabled is the no-backend Generator: every call fails with ErrDisabled.
type Disabled struct{}

func (Disabled) GenerateText(context.Context, string) (string, error) {
	return "", ErrDisabled
}

func (Disabled) Transcribe(context.Context, string) (string, error) {
	return "", ErrDisabled
}

// Mock is a test double that returns canned outputs and records prompts.
type Mock struct {
	mu      sync.Mutex
	prompts []string
	audio   []string

	GenerateOut   string
	GenerateErr   error
	TranscribeOut string
	TranscribeErr error
}

func (m *Mock) GenerateText(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	return m.GenerateOut, m.GenerateErr
}

func (m *Mock) Transcribe(_ context.Context, audioBase64 string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audio = append(m.audio, audioBase64)
	return m.TranscribeOut, m.TranscribeErr
}

// Prompts returns a copy of the prompts seen by GenerateText.
func (m *Mock) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// Audio returns a copy of the payloads seen by Transcribe.
func (m *Mock) Audio() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.audio))
	copy(out, m.audio)
	return out
}
