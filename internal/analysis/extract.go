package analysis

import (
	"regexp"
	"strings"
	"unicode"

	"breachradar/internal/domain"
)

// Best-effort regex extraction of company and person names from article text.
// This is deliberately not a grammar-based parser: rules are ordered
// heuristics tuned on press releases and security-news prose, with no
// precision or recall guarantee beyond the documented filtering.

const (
	maxCompanies    = 10
	maxPeople       = 5
	minCandidateLen = 4
)

var companyRules = []*regexp.Regexp{
	// Corporate suffixes.
	regexp.MustCompile(`\b([A-Z][a-zA-Z\s&'-]{2,40}\s(?:Inc\.?|Corp\.?|Corporation|Company|Ltd\.?|LLC|Limited|Group|Holdings|Systems|Technologies|Solutions))\b`),
	// Well-known vendors that never carry a suffix in coverage.
	regexp.MustCompile(`\b(Microsoft|Google|Amazon|Apple|Meta|ServiceNow|Salesforce|Oracle|IBM|Cisco|Dell|CrowdStrike|Palo Alto Networks|Fortinet|Okta|Zscaler|SentinelOne|Splunk|Rapid7|Qualys|Coinbase|Ticketmaster|PowerSchool|Ingram Micro)\b`),
	// Institutions and financial organizations.
	regexp.MustCompile(`\b([A-Z][a-zA-Z\s]{2,30}(?:Hospital|Medical Center|Healthcare|University|College|Bank|Credit Union|Health System|Financial|Insurance|Capital))\b`),
	// Government bodies and agencies.
	regexp.MustCompile(`\b([A-Z][a-zA-Z\s]{2,30}(?:Department|Agency|Bureau|Commission|Authority|Ministry))\b`),
	// Subject of an announcement or disclosure verb.
	regexp.MustCompile(`\b([A-Z][a-zA-Z]+(?:\s[A-Z][a-zA-Z]+)*)\s(?:announces|today announced|has announced|reports|confirms|discloses|disclosed|confirmed|reported|suffered|experienced)`),
}

var personRules = []*regexp.Regexp{
	// Title before the name.
	regexp.MustCompile(`(?:CEO|CTO|CISO|CIO|CSO|COO|CFO|President|Chairman|Founder|Co-founder|Director|Manager|Vice President|VP|Chief|Head of)\s([A-Z][a-z]+\s[A-Z][a-z]+)`),
	// Title after the name.
	regexp.MustCompile(`([A-Z][a-z]+\s[A-Z][a-z]+),?\s(?:CEO|CTO|CISO|CIO|CSO|COO|CFO|President|Chairman|Director|Manager|Vice President|VP|Chief|Head of)`),
	// Attribution verbs.
	regexp.MustCompile(`(?:said|stated|told|noted|commented|explained|confirmed|according to|spokesperson)\s([A-Z][a-z]+\s[A-Z][a-z]+)`),
	// Quoted speakers.
	regexp.MustCompile(`"([A-Z][a-z]+\s[A-Z][a-z]+)[",]`),
	// Bylines and contact lines.
	regexp.MustCompile(`[Bb]y\s([A-Z][a-z]+\s[A-Z][a-z]+)`),
	regexp.MustCompile(`[Cc]ontact:?\s([A-Z][a-z]+\s[A-Z][a-z]+)`),
}

// genericPhrases are company candidates that are article prose, not names.
var genericPhrases = map[string]struct{}{
	"the company":  {},
	"this company": {},
	"said company": {},
	"that company": {},
}

var leadingProse = regexp.MustCompile(`^(?i:a|an|the|this|that|said|their|our|my)\s`)

// personPhraseStoplist lists two-word source-name artifacts that pass the
// shape check but are never people.
var personPhraseStoplist = map[string]struct{}{
	"Security Week":   {},
	"Dark Reading":    {},
	"Help Net":        {},
	"Cyber Security":  {},
	"Data Protection": {},
	"Risk Management": {},
	"Business Wire":   {},
	"Press Release":   {},
}

// personTokenStoplist rejects names containing common sentence words that the
// capitalization heuristic occasionally swallows.
var personTokenStoplist = map[string]struct{}{
	"said": {}, "told": {}, "from": {}, "with": {}, "that": {}, "this": {},
	"about": {}, "also": {}, "have": {}, "will": {}, "been": {}, "were": {},
	"some": {}, "more": {}, "than": {}, "they": {}, "when": {}, "what": {},
	"only": {}, "such": {}, "each": {}, "both": {},
}

// Entities holds extraction results in first-discovered order: rule order
// first, then match order within a rule.
type Entities struct {
	Companies []string
	People    []string
}

// Matches returns the entities as typed matches, companies first.
func (e Entities) Matches() []domain.EntityMatch {
	out := make([]domain.EntityMatch, 0, len(e.Companies)+len(e.People))
	for _, c := range e.Companies {
		out = append(out, domain.EntityMatch{Name: c, Kind: domain.EntityCompany})
	}
	for _, p := range e.People {
		out = append(out, domain.EntityMatch{Name: p, Kind: domain.EntityPerson})
	}
	return out
}

// Extract applies the ordered pattern rules to free text. Duplicates resolve
// by case-sensitive exact equality; normalization is trimming only.
func Extract(text string) Entities {
	return Entities{
		Companies: extractCompanies(text),
		People:    extractPeople(text),
	}
}

func extractCompanies(text string) []string {
	var out []string
	seen := map[string]struct{}{}

	for _, rule := range companyRules {
		for _, m := range rule.FindAllStringSubmatch(text, -1) {
			candidate := strings.TrimSpace(m[1])
			if !keepCompany(candidate) {
				continue
			}
			if _, ok := seen[candidate]; ok {
				continue
			}
			seen[candidate] = struct{}{}
			out = append(out, candidate)
			if len(out) == maxCompanies {
				return out
			}
		}
	}
	return out
}

func keepCompany(candidate string) bool {
	if len(candidate) < minCandidateLen {
		return false
	}
	if _, ok := genericPhrases[strings.ToLower(candidate)]; ok {
		return false
	}
	return !leadingProse.MatchString(candidate)
}

func extractPeople(text string) []string {
	var out []string
	seen := map[string]struct{}{}

	for _, rule := range personRules {
		for _, m := range rule.FindAllStringSubmatch(text, -1) {
			candidate := strings.TrimSpace(m[1])
			if !keepPerson(candidate) {
				continue
			}
			if _, ok := seen[candidate]; ok {
				continue
			}
			seen[candidate] = struct{}{}
			out = append(out, candidate)
			if len(out) == maxPeople {
				return out
			}
		}
	}
	return out
}

// keepPerson enforces the two-token shape rule: exactly two whitespace
// separated tokens, each starting uppercase and wholly alphabetic.
func keepPerson(candidate string) bool {
	if len(candidate) < minCandidateLen {
		return false
	}
	parts := strings.Fields(candidate)
	if len(parts) != 2 {
		return false
	}
	for _, part := range parts {
		if !isCapitalizedWord(part) {
			return false
		}
		if _, ok := personTokenStoplist[strings.ToLower(part)]; ok {
			return false
		}
	}
	if _, ok := personPhraseStoplist[candidate]; ok {
		return false
	}
	return true
}

func isCapitalizedWord(s string) bool {
	for i, r := range s {
		if i == 0 && !unicode.IsUpper(r) {
			return false
		}
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
