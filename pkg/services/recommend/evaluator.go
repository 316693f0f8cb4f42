package recommend

import (
	"sort"
	"time"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
)

// Evaluate runs the rule table over the detected gaps and risk scores.
// A trigger fires at most once, earliest matching declaration wins; the
// result is ordered by priority with declaration order breaking ties.
func Evaluate(rules []domain.Rule, gaps []domain.GapEvent, risks []domain.RiskScore) ([]domain.Recommendation, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}

	fired := make(map[string]struct{})
	recs := make([]domain.Recommendation, 0, len(rules))
	for _, r := range rules {
		if _, ok := fired[r.TriggerID]; ok {
			continue
		}
		matched, ev := eval(r.Condition, gaps, risks)
		if !matched {
			continue
		}
		fired[r.TriggerID] = struct{}{}
		recs = append(recs, domain.Recommendation{
			TriggerID:         r.TriggerID,
			Priority:          r.Priority,
			MessageTemplateID: r.MessageTemplateID,
			Evidence:          normalizeEvidence(ev),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Priority < recs[j].Priority })
	return recs, nil
}

func eval(c domain.Condition, gaps []domain.GapEvent, risks []domain.RiskScore) (bool, domain.Evidence) {
	switch c.Kind {
	case domain.CondLiquidityAtLeast:
		for _, rs := range risks {
			if rs.Subject == domain.SubjectLiquidity && rs.Score.GreaterThanOrEqual(c.Threshold) {
				return true, domain.Evidence{RiskSubjects: []string{rs.Subject}}
			}
		}
		return false, domain.Evidence{}

	case domain.CondCounterpartyAtLeast:
		var ev domain.Evidence
		for _, rs := range risks {
			if rs.Subject == domain.SubjectLiquidity {
				continue
			}
			if c.Subject != "" && rs.Subject != c.Subject {
				continue
			}
			if rs.Score.GreaterThanOrEqual(c.Threshold) {
				ev.RiskSubjects = append(ev.RiskSubjects, rs.Subject)
			}
		}
		return len(ev.RiskSubjects) > 0, ev

	case domain.CondFactorAtLeast:
		var ev domain.Evidence
		for _, rs := range risks {
			if c.Subject != "" && rs.Subject != c.Subject {
				continue
			}
			for _, f := range rs.Factors {
				if f.Name == c.Factor && f.Raw.GreaterThanOrEqual(c.Threshold) {
					ev.RiskSubjects = append(ev.RiskSubjects, rs.Subject)
					break
				}
			}
		}
		return len(ev.RiskSubjects) > 0, ev

	case domain.CondGapWithin:
		var ev domain.Evidence
		for _, g := range gaps {
			if g.Severity >= c.MinSeverity && g.LeadTimePeriods < c.Periods {
				ev.GapWindows = append(ev.GapWindows, g.WindowStart)
			}
		}
		return len(ev.GapWindows) > 0, ev

	case domain.CondAllOf:
		var merged domain.Evidence
		for _, child := range c.All {
			ok, ev := eval(child, gaps, risks)
			if !ok {
				return false, domain.Evidence{}
			}
			merged = mergeEvidence(merged, ev)
		}
		return true, merged

	case domain.CondAnyOf:
		var merged domain.Evidence
		matched := false
		for _, child := range c.Any {
			ok, ev := eval(child, gaps, risks)
			if ok {
				matched = true
				merged = mergeEvidence(merged, ev)
			}
		}
		return matched, merged

	case domain.CondNot:
		ok, _ := eval(*c.Not, gaps, risks)
		return !ok, domain.Evidence{}

	default:
		return false, domain.Evidence{}
	}
}

func mergeEvidence(a, b domain.Evidence) domain.Evidence {
	a.GapWindows = append(a.GapWindows, b.GapWindows...)
	a.RiskSubjects = append(a.RiskSubjects, b.RiskSubjects...)
	return a
}

// normalizeEvidence dedupes and orders references so equal inputs always
// produce byte-equal recommendations.
func normalizeEvidence(ev domain.Evidence) domain.Evidence {
	var out domain.Evidence
	seenWindows := make(map[time.Time]struct{})
	for _, w := range ev.GapWindows {
		if _, ok := seenWindows[w]; ok {
			continue
		}
		seenWindows[w] = struct{}{}
		out.GapWindows = append(out.GapWindows, w)
	}
	sort.Slice(out.GapWindows, func(i, j int) bool { return out.GapWindows[i].Before(out.GapWindows[j]) })

	seenSubjects := make(map[string]struct{})
	for _, s := range ev.RiskSubjects {
		if _, ok := seenSubjects[s]; ok {
			continue
		}
		seenSubjects[s] = struct{}{}
		out.RiskSubjects = append(out.RiskSubjects, s)
	}
	sort.Strings(out.RiskSubjects)
	return out
}
