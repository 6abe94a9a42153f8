package qa

// Record is one question with the student answer that follows it in a document.
// The question keeps its original numbering prefix ("1.", "2)").
type Record struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// New creates a record. Records are never modified after creation.
func New(question, answer string) Record {
	return Record{Question: question, Answer: answer}
}
