package record

import "testing"

func TestParseBoolToken(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
		ok   bool
	}{
		{"sim", true, true},
		{"Sim", true, true},
		{"s", true, true},
		{"1", true, true},
		{"não", false, true},
		{"nao", false, true},
		{"n", false, true},
		{"0", false, true},
		{"talvez", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		v, ok := parseBoolToken(tt.raw)
		if ok != tt.ok {
			t.Errorf("parseBoolToken(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			continue
		}
		if ok && v != tt.want {
			t.Errorf("parseBoolToken(%q) = %v, want %v", tt.raw, v, tt.want)
		}
	}
}

func TestParseNumberDecimalComma(t *testing.T) {
	n, ok := parseNumber("72,5")
	if !ok || n != 72.5 {
		t.Errorf("parseNumber(72,5) = %v, %v", n, ok)
	}
	n, ok = parseNumber("80")
	if !ok || n != 80 {
		t.Errorf("parseNumber(80) = %v, %v", n, ok)
	}
	if _, ok := parseNumber("oitenta"); ok {
		t.Error("parseNumber accepted a word")
	}
}

func TestParseDate(t *testing.T) {
	v, ok := parseDate("15/03/1990")
	if !ok || v != "1990-03-15" {
		t.Errorf("parseDate(15/03/1990) = %v, %v", v, ok)
	}
	if _, ok := parseDate("31/02/2000"); ok {
		t.Error("parseDate accepted an invalid calendar date")
	}
	if _, ok := parseDate("2000-01-01"); ok {
		t.Error("parseDate accepted ISO input")
	}
}

func TestParseFreeTextRejectsControlPhrases(t *testing.T) {
	for _, phrase := range []string{"sair", "Sair", "cancelar", "MENU", "x"} {
		if _, ok := parseFreeText(phrase); ok {
			t.Errorf("parseFreeText accepted %q", phrase)
		}
	}
	v, ok := parseFreeText("  Maria Silva ")
	if !ok || v != "Maria Silva" {
		t.Errorf("parseFreeText trimmed = %v, %v", v, ok)
	}
}

func TestEnumCanonical(t *testing.T) {
	def := fieldByName(t, "status_tabagismo")
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"sim", "Sim", true},
		{"SIM", "Sim", true},
		{"nunca", "Nunca", true},
		{"não", "Nunca", true},
		{"ex-fumante", "Ex-fumante", true},
		{"parei de fumar", "Ex-fumante", true},
		{"às vezes", "", false},
	}
	for _, tt := range tests {
		v, ok := def.canonical(tt.raw)
		if ok != tt.ok {
			t.Errorf("canonical(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			continue
		}
		if ok && v != tt.want {
			t.Errorf("canonical(%q) = %v, want %q", tt.raw, v, tt.want)
		}
	}
}

func TestRescaleHeight(t *testing.T) {
	if got := rescaleHeight(1.75); got != 175 {
		t.Errorf("rescaleHeight(1.75) = %v, want 175", got)
	}
	if got := rescaleHeight(175); got != 175 {
		t.Errorf("rescaleHeight(175) = %v, want 175", got)
	}
	if got := rescaleHeight(0); got != 0 {
		t.Errorf("rescaleHeight(0) = %v, want 0", got)
	}
}
