package evaluation

import "fmt"

// MaxScore is the best score a single answer can receive.
const MaxScore = 5

// Result is the normalized outcome of grading one answer.
type Result struct {
	Score      float64 `json:"score"`
	Feedback   string  `json:"feedback"`
	Evaluation string  `json:"evaluation"` // raw text returned by the model
}

// FromText builds a result from a model response: the score line is parsed
// separately, everything else becomes feedback.
func FromText(score float64, text string) Result {
	return Result{
		Score:      score,
		Feedback:   Feedback(text),
		Evaluation: text,
	}
}

// Failed returns the fallback result used when no usable response could be
// obtained. The message says which kind of failure happened.
func Failed(message string) Result {
	return Result{
		Score:      0,
		Feedback:   message,
		Evaluation: fmt.Sprintf("Score: 0/%d\nFeedback: %s", MaxScore, message),
	}
}
