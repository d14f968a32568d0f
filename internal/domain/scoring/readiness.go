package scoring

import (
	"fmt"
	"sort"

	"github.com/venturelens/pulse/internal/domain/model"
)

// Readiness evaluates the profile's stage-transition conditions against the
// computed scores. Profiles without transition conditions yield an
// unevaluated result. Incomplete axes count as unmet: readiness is never
// inferred from missing data.
func Readiness(profile *model.ClusterProfile, axes []model.AxisScore, overall *float64) model.StageReadiness {
	if profile == nil || profile.Transition == nil {
		return model.StageReadiness{}
	}
	t := profile.Transition

	var unmet []string
	if overall == nil {
		unmet = append(unmet, "overall score unavailable")
	} else if *overall < t.MinOverall {
		unmet = append(unmet, fmt.Sprintf("overall %.1f below %.1f", *overall, t.MinOverall))
	}

	byAxis := make(map[string]model.AxisScore, len(axes))
	for _, a := range axes {
		byAxis[string(a.Axis)] = a
	}
	for axis, min := range t.MinAxes {
		a, ok := byAxis[string(axis)]
		switch {
		case !ok || !a.Complete || a.Score == nil:
			unmet = append(unmet, fmt.Sprintf("%s axis incomplete", axis))
		case *a.Score < min:
			unmet = append(unmet, fmt.Sprintf("%s %.1f below %.1f", axis, *a.Score, min))
		}
	}
	sort.Strings(unmet)

	return model.StageReadiness{
		Evaluated: true,
		Ready:     len(unmet) == 0,
		NextStage: t.NextStage,
		Unmet:     unmet,
	}
}
