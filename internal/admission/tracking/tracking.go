// Package tracking generates human-readable application tracking codes.
//
// A candidate is formed from applicant attributes plus a random numeric
// suffix: the first two letters of the last name, the date of birth as
// ddmmyy, and three random digits, dash-separated (e.g. "DO-120590-417").
// Uniqueness is probabilistic; the submission protocol verifies each
// candidate against the store and retries with a fresh suffix on collision,
// bounded by MaxAttempts.
package tracking

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// MaxAttempts bounds the collision retry loop. Exhaustion surfaces as a
// retryable failure to the caller, never a crash.
const MaxAttempts = 10

const delimiter = "-"

// Generator draws tracking ID candidates.
type Generator struct {
	// intN allows deterministic suffixes in tests.
	intN func(n int) int
}

// New builds a generator backed by the shared PRNG.
func New() *Generator {
	return &Generator{intN: rand.IntN}
}

// NewWithRand builds a generator with a caller-supplied draw function.
func NewWithRand(intN func(n int) int) *Generator {
	return &Generator{intN: intN}
}

// Candidate derives one tracking ID candidate from the applicant's last name
// and date of birth. The last name is expected normalized (upper-cased);
// shorter-than-two-letter names are used as-is.
func (g *Generator) Candidate(lastName string, dateOfBirth time.Time) string {
	prefix := strings.ToUpper(strings.TrimSpace(lastName))
	if runes := []rune(prefix); len(runes) > 2 {
		prefix = string(runes[:2])
	}
	suffix := 100 + g.intN(900)
	return fmt.Sprintf("%s%s%s%s%d", prefix, delimiter, dateOfBirth.Format("020106"), delimiter, suffix)
}
