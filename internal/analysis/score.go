package analysis

import (
	"strings"

	"breachradar/internal/domain"
)

// Keyword groups that move the severity score. Fixed terms; the deltas they
// apply come from ScoreWeights so a pipeline variant can retune without code
// changes.
var (
	criticalTerms  = []string{"critical", "severe", "zero-day", "massive"}
	impactTerms    = []string{"ransomware", "credit card", "financial", "healthcare"}
	mitigatedTerms = []string{"patched", "fixed", "mitigated"}
)

// highValueIndustries and corporateSuffixes feed the fit rating from the
// company name alone.
var (
	highValueIndustries = []string{"bank", "financial", "insurance", "healthcare", "e-commerce", "tech", "software"}
	corporateSuffixes   = []string{"corp", "group", "global", "international"}
)

// highTierCategories carry the heaviest fit weight; midTierCategories the
// next band. Everything else, including the fallback label, scores the base.
var (
	highTierCategories = []domain.Category{
		domain.CategoryInjection,
		domain.CategoryBrokenAccessControl,
		domain.CategorySSRF,
	}
	midTierCategories = []domain.Category{
		domain.CategoryAuthFailures,
		domain.CategoryIntegrityFailures,
	}
)

// ScoreWeights parameterizes both deterministic scoring functions.
type ScoreWeights struct {
	SeverityBaseline int `yaml:"severityBaseline"`
	CriticalBoost    int `yaml:"criticalBoost"`
	ImpactBoost      int `yaml:"impactBoost"`
	MitigatedCut     int `yaml:"mitigatedCut"`

	CategoryHighTier int `yaml:"categoryHighTier"`
	CategoryMidTier  int `yaml:"categoryMidTier"`
	CategoryBaseTier int `yaml:"categoryBaseTier"`
	IndustryBoost    int `yaml:"industryBoost"`
	SuffixBoost      int `yaml:"suffixBoost"`
}

// DefaultWeights mirrors the tuning the scoring heuristic shipped with.
func DefaultWeights() ScoreWeights {
	return ScoreWeights{
		SeverityBaseline: 5,
		CriticalBoost:    3,
		ImpactBoost:      2,
		MitigatedCut:     2,
		CategoryHighTier: 4,
		CategoryMidTier:  3,
		CategoryBaseTier: 2,
		IndustryBoost:    2,
		SuffixBoost:      1,
	}
}

// Severity estimates breach impact on a 1..10 scale from keyword groups.
// Pure function of its input; always clamped.
func (w ScoreWeights) Severity(text string) int {
	lower := strings.ToLower(text)
	severity := w.SeverityBaseline
	if containsAny(lower, criticalTerms) {
		severity += w.CriticalBoost
	}
	if containsAny(lower, impactTerms) {
		severity += w.ImpactBoost
	}
	if containsAny(lower, mitigatedTerms) {
		severity -= w.MitigatedCut
	}
	return clamp(severity, 1, 10)
}

// Fit rates how promising a prospect is for outreach on a 0..10 scale:
// category tier plus company-name industry and suffix hits plus a severity
// tier. Pure function of its inputs; always clamped.
func (w ScoreWeights) Fit(companyName string, category domain.Category, severity int) int {
	rating := w.CategoryBaseTier
	switch {
	case containsCategory(highTierCategories, category):
		rating = w.CategoryHighTier
	case containsCategory(midTierCategories, category):
		rating = w.CategoryMidTier
	}

	companyLower := strings.ToLower(companyName)
	if containsAny(companyLower, highValueIndustries) {
		rating += w.IndustryBoost
	}
	if containsAny(companyLower, corporateSuffixes) {
		rating += w.SuffixBoost
	}

	switch {
	case severity >= 8:
		rating += 3
	case severity >= 6:
		rating += 2
	default:
		rating++
	}
	return clamp(rating, 0, 10)
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

func containsCategory(set []domain.Category, c domain.Category) bool {
	for _, candidate := range set {
		if candidate == c {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
