package hedge

import (
	"strings"

	"github.com/zhouzirui/misinfo-check/backend/internal/model/verdict"
)

// Phrases marks a completion as non-committal. Matching is exact and case-sensitive.
var Phrases = []string{
	"I cannot verify this information",
	"I do not have enough information",
}

// Decision is the verdict status plus the hedge phrase that triggered it, if any.
type Decision struct {
	Status verdict.Status
	Phrase string
}

// Analyze labels text neutral when any hedge phrase appears anywhere in it, verified otherwise.
// verified only means no hedge phrase was found; nothing is fact-checked here.
func Analyze(text string) Decision {
	for _, phrase := range Phrases {
		if strings.Contains(text, phrase) {
			return Decision{Status: verdict.Neutral, Phrase: phrase}
		}
	}
	return Decision{Status: verdict.Verified}
}
