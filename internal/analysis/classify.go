package analysis

import (
	"strings"

	"breachradar/internal/domain"
)

// CategoryKeywords binds one taxonomy label to its trigger keywords.
type CategoryKeywords struct {
	Category domain.Category `yaml:"category"`
	Keywords []string        `yaml:"keywords"`
}

// Taxonomy is an ordered category-to-keywords mapping. Order matters: the
// first category with any case-insensitive substring hit wins.
type Taxonomy []CategoryKeywords

// DefaultTaxonomy returns the OWASP Top 10 keyword mapping.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		{domain.CategoryBrokenAccessControl, []string{
			"authorization bypass", "authentication bypass", "directory traversal",
			"path traversal", "csrf", "cross-site request forgery", "idor",
			"insecure direct object reference",
		}},
		{domain.CategoryCryptographicFailures, []string{
			"cryptographic failure", "weak cryptography", "data exposure",
			"sensitive data exposure", "unencrypted",
		}},
		{domain.CategoryInjection, []string{
			"sql injection", "sqli", "xss", "cross-site scripting",
			"command injection", "code injection", "os injection",
		}},
		{domain.CategoryInsecureDesign, []string{
			"insecure design", "flaw by design", "design vulnerability",
		}},
		{domain.CategoryMisconfiguration, []string{
			"misconfiguration", "security misconfiguration", "default credentials",
			"exposed cloud storage", "s3 bucket leak", "exposed database",
		}},
		{domain.CategoryVulnerableComponents, []string{
			"vulnerable component", "outdated library", "known vulnerability",
			"log4j", "log4shell", "apache struts", "spring framework vulnerability",
			"exchange vulnerability",
		}},
		{domain.CategoryAuthFailures, []string{
			"session fixation", "session hijacking", "credential stuffing",
			"brute force attack", "weak password",
		}},
		{domain.CategoryIntegrityFailures, []string{
			"insecure deserialization", "software update integrity",
			"supply chain attack",
		}},
		{domain.CategoryLoggingFailures, []string{
			"insufficient logging", "monitoring failure", "lack of monitoring",
		}},
		{domain.CategorySSRF, []string{
			"ssrf", "server-side request forgery", "cross-site port attack",
		}},
	}
}

// Classify returns the first matching category, or CategoryGeneral when no
// keyword hits. Total: always exactly one label.
func (t Taxonomy) Classify(text string) domain.Category {
	lower := strings.ToLower(text)
	for _, entry := range t {
		for _, keyword := range entry.Keywords {
			if strings.Contains(lower, keyword) {
				return entry.Category
			}
		}
	}
	return domain.CategoryGeneral
}
