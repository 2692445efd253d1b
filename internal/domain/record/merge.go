package record

// ApplyPartial copies every non-empty tracked field of partial onto dst
// and returns how many fields were written. Fields absent or empty in
// partial are left untouched: the merge only ever moves toward more
// information.
func ApplyPartial(dst, partial *Record) int {
	applied := 0
	for i := range catalog {
		def := &catalog[i]
		v := def.Value(partial)
		if !nonEmpty(v) {
			continue
		}
		def.Set(dst, v)
		applied++
	}

	// System fields follow the same non-empty-wins rule.
	if partial.ResumoNarrativo != nil && *partial.ResumoNarrativo != "" {
		s := *partial.ResumoNarrativo
		dst.ResumoNarrativo = &s
	}
	if partial.AlertaPrioritario {
		dst.AlertaPrioritario = true
	}
	return applied
}
