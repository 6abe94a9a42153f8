package evaluation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const scorePrefix = "Score:"

var (
	ErrNoScoreLine     = errors.New("no score line found")
	ErrUnparsableScore = errors.New("score is not a number")
	ErrScoreOutOfRange = errors.New("score out of range")
)

// ParseScore reads the first "Score: X/5" line of an evaluation.
//
// The value is the text between the first ':' and the first '/' after it
// (or the end of the line when there is no '/'). It must lie in [0, MaxScore].
func ParseScore(text string) (float64, error) {
	line, ok := scoreLine(text)
	if !ok {
		return 0, ErrNoScoreLine
	}

	value := line[strings.Index(line, ":")+1:]
	if slash := strings.Index(value, "/"); slash >= 0 {
		value = value[:slash]
	}
	value = strings.TrimSpace(value)

	score, err := strconv.ParseFloat(value, 64)
	if err != nil || isHexFloat(value) {
		return 0, fmt.Errorf("%w: %q", ErrUnparsableScore, value)
	}
	if math.IsNaN(score) || score < 0 || score > MaxScore {
		return 0, fmt.Errorf("%w: %v", ErrScoreOutOfRange, score)
	}
	return score, nil
}

// Feedback returns the evaluation text without its score line.
func Feedback(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	removed := false
	for _, line := range lines {
		if !removed && strings.HasPrefix(strings.TrimSpace(line), scorePrefix) {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// FormatScore renders a score the way the model is asked to write it.
func FormatScore(score float64) string {
	return fmt.Sprintf("%s %s/%d", scorePrefix, strconv.FormatFloat(score, 'f', -1, 64), MaxScore)
}

// isHexFloat reports whether value uses the 0x form, which ParseFloat
// accepts but a plain decimal score never has.
func isHexFloat(value string) bool {
	v := strings.ToLower(strings.TrimLeft(value, "+-"))
	return strings.HasPrefix(v, "0x")
}

func scoreLine(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, scorePrefix) {
			return trimmed, true
		}
	}
	return "", false
}
