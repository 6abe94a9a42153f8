package textprep_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quesans/backend/internal/textprep"
)

func TestPreprocess(t *testing.T) {
	out := textprep.Preprocess("The Goroutine is a lightweight, managed THREAD!")

	assert.Equal(t, strings.ToLower(out), out)
	assert.NotContains(t, out, ",")
	assert.NotContains(t, out, "!")
	assert.Contains(t, out, "goroutine")
	assert.Contains(t, out, "lightweight")
	assert.NotContains(t, strings.Fields(out), "the")
	assert.NotContains(t, strings.Fields(out), "is")
}

func TestPreprocess_Empty(t *testing.T) {
	assert.Equal(t, "", textprep.Preprocess(""))
	assert.Equal(t, "", textprep.Preprocess("  ...  "))
}

func TestPreprocess_KeepsDigits(t *testing.T) {
	out := strings.Fields(textprep.Preprocess("TCP uses port 80"))
	assert.Contains(t, out, "tcp")
	assert.Contains(t, out, "port")
	assert.Contains(t, out, "80")

	out = strings.Fields(textprep.Preprocess("Go 1.21 costs $5 + tax"))
	assert.Contains(t, out, "121")
	assert.Contains(t, out, "5")
	assert.Contains(t, out, "tax")
	assert.NotContains(t, out, "$5")
}
