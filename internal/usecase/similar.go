package usecase

import (
	"strings"

	"github.com/adrg/strutil/metrics"
)

// Feeds routinely append their outlet name after a dash or pipe; crop it so
// the same story from two outlets compares equal.
var titleMarkers = []string{" – ", " - ", "|"}

const minTitleBeforeMarker = 15

func cleanTitle(s string) string {
	result := s
	for _, marker := range titleMarkers {
		if pos := strings.Index(result, marker); pos != -1 && pos >= minTitleBeforeMarker {
			result = result[:pos]
		}
	}
	return strings.TrimSpace(result)
}

// titlesSimilar flags near-duplicate headlines using Hamming distance over
// the first 30 characters of the cleaned titles.
func titlesSimilar(a, b string) bool {
	lenDiff := len(a) - len(b)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > 10 {
		return false
	}

	minLength := len(a)
	if len(b) < minLength {
		minLength = len(b)
	}
	if minLength <= 20 {
		return false
	}

	compareLength := 30
	if minLength < compareLength {
		compareLength = minLength
	}

	hamming := metrics.NewHamming()
	distance := hamming.Distance(a[:compareLength], b[:compareLength])
	return distance <= 5
}
