package tracking

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

var candidatePattern = regexp.MustCompile(`^[A-Z]{2}-\d{6}-\d{3}$`)

type TrackingSuite struct {
	suite.Suite
	gen *Generator
}

func TestTrackingSuite(t *testing.T) {
	suite.Run(t, new(TrackingSuite))
}

func (s *TrackingSuite) SetupTest() {
	s.gen = New()
}

func (s *TrackingSuite) TestCandidateShape() {
	dob := time.Date(1990, 5, 12, 0, 0, 0, 0, time.UTC)

	s.Run("matches the documented pattern", func() {
		for range 50 {
			c := s.gen.Candidate("DOE", dob)
			s.Regexp(candidatePattern, c)
			s.True(strings.HasPrefix(c, "DO-120590-"), "got %q", c)
		}
	})

	s.Run("upper-cases unnormalized names", func() {
		c := s.gen.Candidate("doe", dob)
		s.True(strings.HasPrefix(c, "DO-"), "got %q", c)
	})

	s.Run("tolerates single-letter last names", func() {
		c := s.gen.Candidate("O", dob)
		s.True(strings.HasPrefix(c, "O-120590-"), "got %q", c)
	})
}

func (s *TrackingSuite) TestSuffixRange() {
	dob := time.Date(2000, 1, 31, 0, 0, 0, 0, time.UTC)

	// Pin the draw to the boundaries.
	low := NewWithRand(func(int) int { return 0 })
	s.Equal("SM-310100-100", low.Candidate("SMITH", dob))

	high := NewWithRand(func(n int) int { return n - 1 })
	s.Equal("SM-310100-999", high.Candidate("SMITH", dob))
}

func (s *TrackingSuite) TestSuffixVariability() {
	dob := time.Date(1995, 7, 3, 0, 0, 0, 0, time.UTC)
	seen := make(map[string]struct{})
	for range 200 {
		seen[s.gen.Candidate("KONE", dob)] = struct{}{}
	}
	// 200 draws over 900 suffixes should produce a healthy spread.
	s.Greater(len(seen), 50)
}
