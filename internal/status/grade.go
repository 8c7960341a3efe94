package status

import (
	"fmt"
	"strconv"
	"strings"
)

// Outcome is the pass/fail classification for an exam result.
type Outcome string

const (
	Pass Outcome = "PASS"
	Fail Outcome = "FAIL"
)

// PassFail classifies marks against the passing threshold. Reaching the
// threshold exactly counts as a pass.
func PassFail(marksObtained, passingMarks float64) Outcome {
	if marksObtained >= passingMarks {
		return Pass
	}
	return Fail
}

// Band maps a minimum score to a letter grade.
type Band struct {
	Min    float64
	Letter string
}

// Scale is a monotonic score-to-letter table. Bands are held in strictly
// descending cutoff order so lookup is a single scan.
type Scale struct {
	bands []Band
}

// ParseScale builds a Scale from its configuration form, e.g.
// "90:A,80:B+,70:B,60:C+,50:C,40:D,0:E". Cutoffs must be strictly descending.
func ParseScale(raw string) (*Scale, error) {
	parts := strings.Split(raw, ",")
	bands := make([]Band, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.SplitN(part, ":", 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("invalid grade band %q", part)
		}
		min, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid grade cutoff %q: %w", fields[0], err)
		}
		letter := strings.TrimSpace(fields[1])
		if letter == "" {
			return nil, fmt.Errorf("empty letter in grade band %q", part)
		}
		bands = append(bands, Band{Min: min, Letter: letter})
	}
	if len(bands) == 0 {
		return nil, fmt.Errorf("grade scale is empty")
	}
	for i := 1; i < len(bands); i++ {
		if bands[i].Min >= bands[i-1].Min {
			return nil, fmt.Errorf("grade cutoffs must be strictly descending, got %v before %v", bands[i-1].Min, bands[i].Min)
		}
	}
	return &Scale{bands: bands}, nil
}

// DefaultScale returns the standard portal grading table.
func DefaultScale() *Scale {
	s, err := ParseScale("90:A,80:B+,70:B,60:C+,50:C,40:D,0:E")
	if err != nil {
		panic(err)
	}
	return s
}

// Letter returns the letter for the first band whose cutoff the score reaches.
// Scores below every cutoff fall into the lowest band.
func (s *Scale) Letter(score float64) string {
	for _, band := range s.bands {
		if score >= band.Min {
			return band.Letter
		}
	}
	return s.bands[len(s.bands)-1].Letter
}
