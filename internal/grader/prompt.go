package grader

import "fmt"

// BuildPrompt creates the grading prompt for one answer. The model is asked to
// start with a "Score: X/5" line and follow with a "Feedback:" line.
func BuildPrompt(question, answer string) string {
	return fmt.Sprintf(`Evaluate this student's answer to the question and provide a score out of 5.
Consider the following criteria:
1. Accuracy of information (2 points)
2. Completeness of answer (1 point)
3. Clarity and organization (1 point)
4. Use of appropriate terminology (1 point)

Question: %s
Student's Answer: %s

Provide your evaluation in this format:
Score: X/5
Feedback: [Your detailed feedback here]`, question, answer)
}
