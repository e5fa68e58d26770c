package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTML(t *testing.T) {
	out, err := ToHTML("**Day 1**\nArrive in Haridwar")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>Day 1</strong><br")
	assert.Contains(t, out, "Arrive in Haridwar")
}

func TestToHTMLEscapesRawHTML(t *testing.T) {
	out, err := ToHTML(`<script>alert(1)</script>`)
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
}
