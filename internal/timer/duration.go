package timer

import (
	"strconv"
	"strings"

	"github.com/wabbazzar/shredly2-sub003/internal/models"
)

// tempoSecondsPerRep sums a 3-part eccentric-pause-concentric tempo
// string such as "3-1-2". The second return is false when the string is
// absent, has the wrong part count, or contains non-numeric parts.
func tempoSecondsPerRep(tempo string) (int, bool) {
	parts := strings.Split(tempo, "-")
	if len(parts) != 3 {
		return 0, false
	}
	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0, false
		}
		total += n
	}
	return total, true
}

// workDuration computes the work phase duration in seconds for the
// exercise's current sub-exercise. Malformed or missing prescription
// data falls back to configured defaults; there is no failure mode.
func workDuration(ex *models.LiveExercise, subIdx int, p Profile, o Options) int {
	pres := ex.Prescription
	if sub, ok := subExercise(ex, subIdx); ok {
		if sub.WorkSeconds > 0 {
			pres.WorkSeconds = sub.WorkSeconds
		}
		if sub.Reps > 0 {
			pres.Reps = sub.Reps
		}
		if sub.Tempo != "" {
			pres.Tempo = sub.Tempo
		}
	}

	switch p.WorkCalculation {
	case WorkTempoBased:
		if pres.Reps > 0 {
			perRep, ok := tempoSecondsPerRep(pres.Tempo)
			if !ok {
				perRep = o.DefaultRepSeconds
			}
			return pres.Reps * perRep
		}
	case WorkFromPrescription:
		if pres.WorkSeconds > 0 {
			return pres.WorkSeconds
		}
	}

	if pres.WorkSeconds > 0 {
		return pres.WorkSeconds
	}
	return o.DefaultWorkSeconds
}

// restDuration computes the rest phase duration in seconds, floored at
// the configured minimum. The current sub-exercise's rest takes
// priority over the parent prescription when present.
func restDuration(ex *models.LiveExercise, subIdx int, o Options) int {
	rest := ex.RestSeconds
	if sub, ok := subExercise(ex, subIdx); ok && sub.RestSeconds > 0 {
		rest = sub.RestSeconds
	}
	if rest <= 0 {
		return o.DefaultRestSeconds
	}
	if rest < o.MinRestSeconds {
		return o.MinRestSeconds
	}
	return rest
}

func subExercise(ex *models.LiveExercise, idx int) (models.SubExercise, bool) {
	if idx < 0 || idx >= len(ex.SubExercises) {
		return models.SubExercise{}, false
	}
	return ex.SubExercises[idx], true
}
