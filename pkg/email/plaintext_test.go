package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainText(t *testing.T) {
	data := sampleData()
	data.Message = "first line\nsecond & last"
	html, err := RenderInternalLead(data)
	require.NoError(t, err)

	text := PlainText(html)

	assert.Contains(t, text, "Name: Jane Doe")
	assert.Contains(t, text, "first line\nsecond & last")
	assert.NotContains(t, text, "<")
	assert.NotContains(t, text, "border-collapse")
	assert.NotContains(t, text, "\n\n\n")
}
