package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatExampleValue(t *testing.T) {
	assert.Equal(t, `["tree","blob"]`, formatExampleValue([]string{"tree", "blob"}))
	assert.Equal(t, "github.com", formatExampleValue("github.com"))
	assert.Equal(t, "true", formatExampleValue(true))
	assert.Equal(t, "300", formatExampleValue(300))
}
