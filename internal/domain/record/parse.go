package record

import (
	"strconv"
	"strings"
	"time"
)

const (
	// Heights below this value are read as meters and rescaled to
	// centimeters. A legitimate 2.1 m subject and a data-entry error are
	// indistinguishable under this rule; the extractor logs every rescale.
	metersThreshold = 3.0

	// minFreeTextLen is the minimum rune length for a free-text capture.
	minFreeTextLen = 2

	dateInputLayout  = "2/1/2006"
	dateStoredLayout = "2006-01-02"
)

// controlPhrases are conversation-control tokens that must never be
// captured as field data.
var controlPhrases = map[string]bool{
	"sair":      true,
	"encerrar":  true,
	"cancelar":  true,
	"finalizar": true,
	"menu":      true,
	"voltar":    true,
}

var trueTokens = map[string]bool{
	"sim": true, "s": true, "true": true, "1": true, "yes": true,
}

var falseTokens = map[string]bool{
	"não": true, "nao": true, "n": true, "false": true, "0": true,
}

// parse coerces a raw captured string into the field's typed value.
// A failed coercion is indistinguishable from a pattern miss: the field is
// simply omitted from the partial record.
func (d *FieldDef) parse(raw string) (interface{}, bool) {
	switch d.Type {
	case TypeBool:
		return parseBoolToken(raw)
	case TypeNumber:
		n, ok := parseNumber(raw)
		if !ok {
			return nil, false
		}
		if d.rescale != nil {
			n = d.rescale(n)
		}
		return n, true
	case TypeDate:
		return parseDate(raw)
	case TypeEnum:
		return d.canonical(raw)
	default:
		return parseFreeText(raw)
	}
}

// parseBoolToken maps affirmative and negative tokens to a boolean. An
// unrecognized token is a miss, never a default false.
func parseBoolToken(raw string) (interface{}, bool) {
	t := strings.ToLower(strings.TrimSpace(raw))
	if trueTokens[t] {
		return true, true
	}
	if falseTokens[t] {
		return false, true
	}
	return nil, false
}

// parseNumber accepts a decimal comma as well as a decimal point.
func parseNumber(raw string) (float64, bool) {
	t := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	n, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseDate reads DD/MM/YYYY and normalizes it to the stored ISO form.
// Invalid calendar dates are a miss, never defaulted to "now".
func parseDate(raw string) (interface{}, bool) {
	t, err := time.Parse(dateInputLayout, strings.TrimSpace(raw))
	if err != nil {
		return nil, false
	}
	return t.Format(dateStoredLayout), true
}

// parseFreeText trims the capture and rejects control phrases and
// too-short fragments so conversation commands are never stored as data.
func parseFreeText(raw string) (interface{}, bool) {
	t := strings.TrimSpace(raw)
	if len([]rune(t)) < minFreeTextLen {
		return nil, false
	}
	if controlPhrases[strings.ToLower(t)] {
		return nil, false
	}
	return t, true
}

// canonical maps a captured enum token to its canonical label,
// case-insensitively.
func (d *FieldDef) canonical(raw string) (interface{}, bool) {
	t := strings.ToLower(strings.TrimSpace(raw))
	if label, ok := d.Tokens[t]; ok {
		return label, true
	}
	return nil, false
}

func rescaleHeight(v float64) float64 {
	if v > 0 && v < metersThreshold {
		return v * 100
	}
	return v
}
