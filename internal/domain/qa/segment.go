package qa

import (
	"regexp"
	"strings"
)

// boundary matches a line that opens a new question: one or more decimal
// digits in any script followed immediately by "." or ")". Numbering is not
// checked for order.
var boundary = regexp.MustCompile(`^\p{Nd}+[.)]`)

// IsBoundary reports whether a trimmed line starts a new question.
func IsBoundary(line string) bool {
	return boundary.MatchString(line)
}

// Segment splits raw document text into question/answer records in document order.
//
// Blank lines are skipped. Every boundary line closes the open record and starts a
// new one; every other line is appended to the open record's answer. Lines seen
// before the first question are dropped.
func Segment(rawText string) []Record {
	records := []Record{}

	var (
		question string
		answer   []string
		open     bool
	)

	closeRecord := func() {
		if !open {
			return
		}
		records = append(records, New(question, strings.TrimSpace(strings.Join(answer, " "))))
	}

	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if IsBoundary(line) {
			closeRecord()
			question = line
			answer = answer[:0]
			open = true
			continue
		}

		if open {
			answer = append(answer, line)
		}
	}

	closeRecord()
	return records
}
