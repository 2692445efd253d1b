package record

import (
	"strings"

	"github.com/rs/zerolog"
)

// Extractor turns a raw text blob (free text typed by the subject or an
// AI-composed narrative) into a sparse partial record by running every
// catalog field's recognition patterns against it.
type Extractor struct {
	catalog []FieldDef
	logger  zerolog.Logger
}

// NewExtractor creates an Extractor over the default field catalog.
func NewExtractor(logger zerolog.Logger) *Extractor {
	return &Extractor{catalog: Catalog(), logger: logger}
}

// Extract applies the catalog to raw and returns a partial record holding
// only the fields it could recognize and coerce. A field whose patterns do
// not match, or whose captured value fails coercion, is simply absent.
// Empty input yields an empty partial record, not an error.
func (e *Extractor) Extract(raw string) *Record {
	partial := &Record{}
	if strings.TrimSpace(raw) == "" {
		return partial
	}

	for i := range e.catalog {
		def := &e.catalog[i]
		for _, p := range def.Patterns {
			m := p.FindStringSubmatch(raw)
			if m == nil {
				continue
			}
			v, ok := def.parse(m[1])
			if !ok {
				// Malformed capture: try the next declared pattern.
				continue
			}
			if def.rescale != nil {
				if n, isNum := v.(float64); isNum {
					if parsed, numOK := parseNumber(m[1]); numOK && parsed != n {
						e.logger.Debug().
							Str("field", def.Name).
							Float64("captured", parsed).
							Float64("stored", n).
							Msg("unit heuristic rescaled value")
					}
				}
			}
			def.Set(partial, v)
			break
		}
	}
	return partial
}
