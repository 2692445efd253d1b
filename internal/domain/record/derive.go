package record

import (
	"math"
	"time"
)

const screeningAgeCutoff = 45

// Derive recomputes the derived fields from the stored ones. It is a pure
// calculation over the record snapshot: a derived field is set only when
// its inputs are present and left nil otherwise.
func Derive(r *Record, now time.Time) {
	r.Idade = nil
	r.IMC = nil
	r.Idade45Mais = nil

	if r.DataNascimento != nil && *r.DataNascimento != "" {
		if born, err := time.Parse(dateStoredLayout, *r.DataNascimento); err == nil {
			age := yearsBetween(born, now)
			if age >= 0 {
				r.Idade = &age
				over := age >= screeningAgeCutoff
				r.Idade45Mais = &over
			}
		}
	}

	if r.PesoKg != nil && *r.PesoKg > 0 && r.AlturaCm != nil && *r.AlturaCm > 0 {
		meters := *r.AlturaCm / 100
		bmi := math.Round(*r.PesoKg/(meters*meters)*100) / 100
		r.IMC = &bmi
	}
}

// yearsBetween returns whole years elapsed from born to now.
func yearsBetween(born, now time.Time) int {
	years := now.Year() - born.Year()
	anniversary := born.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}
