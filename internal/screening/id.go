package screening

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	candidateIDPrefix = "CND"
	idSuffixLength    = 7
	base36Alphabet    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewCandidateID returns "CND-<epoch millis>-<7 base36 chars>". It is meant
// for display and log correlation only.
func NewCandidateID(now time.Time) string {
	suffix := make([]byte, idSuffixLength)
	for i := range suffix {
		suffix[i] = base36Alphabet[rand.IntN(len(base36Alphabet))]
	}
	return fmt.Sprintf("%s-%d-%s", candidateIDPrefix, now.UnixMilli(), suffix)
}
