package record

import "testing"

func fieldByName(t *testing.T, name string) *FieldDef {
	t.Helper()
	for i := range catalog {
		if catalog[i].Name == name {
			return &catalog[i]
		}
	}
	t.Fatalf("field %q not in catalog", name)
	return nil
}

func TestCatalogShape(t *testing.T) {
	if got := TotalFields(); got != 35 {
		t.Fatalf("TotalFields() = %d, want 35", got)
	}

	seen := make(map[string]bool)
	for i := range catalog {
		def := &catalog[i]
		if seen[def.Name] {
			t.Errorf("duplicate field name %q", def.Name)
		}
		seen[def.Name] = true
		if len(def.Patterns) == 0 {
			t.Errorf("field %q has no recognition patterns", def.Name)
		}
		if def.Type == TypeEnum && len(def.Tokens) == 0 {
			t.Errorf("enum field %q has no tokens", def.Name)
		}
	}
}

func TestFieldSetAndValue(t *testing.T) {
	r := &Record{}

	nome := fieldByName(t, "nome")
	nome.Set(r, "Maria Silva")
	if got := nome.Value(r); got != "Maria Silva" {
		t.Errorf("nome value = %v, want Maria Silva", got)
	}

	peso := fieldByName(t, "peso_kg")
	peso.Set(r, 72.5)
	if got := peso.Value(r); got != 72.5 {
		t.Errorf("peso_kg value = %v, want 72.5", got)
	}

	fuma := fieldByName(t, "consumo_alcool")
	fuma.Set(r, true)
	if got := fuma.Value(r); got != true {
		t.Errorf("consumo_alcool value = %v, want true", got)
	}
}

func TestFilledSemantics(t *testing.T) {
	r := &Record{}

	sexo := fieldByName(t, "sexo_biologico")
	if sexo.Filled(r) {
		t.Error("unset field reported filled")
	}
	sexo.Set(r, "")
	if sexo.Filled(r) {
		t.Error("empty string reported filled")
	}
	sexo.Set(r, "F")
	if !sexo.Filled(r) {
		t.Error("non-empty string reported unfilled")
	}

	ativo := fieldByName(t, "atividade_sexual")
	ativo.Set(r, false)
	if ativo.Filled(r) {
		t.Error("false boolean reported filled")
	}
	ativo.Set(r, true)
	if !ativo.Filled(r) {
		t.Error("true boolean reported unfilled")
	}

	peso := fieldByName(t, "peso_kg")
	peso.Set(r, 0.0)
	if peso.Filled(r) {
		t.Error("zero number reported filled")
	}
	peso.Set(r, 60.0)
	if !peso.Filled(r) {
		t.Error("non-zero number reported unfilled")
	}
}
