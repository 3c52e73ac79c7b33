package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryResolve(t *testing.T) {
	reg := NewRegistry(silentLog())
	mock := &MockClient{ProviderName: "mock"}
	reg.Register("mock", mock)
	reg.Alias("fancy", "mock")

	// Direct name
	c, err := reg.Resolve("mock")
	require.NoError(t, err)
	assert.Equal(t, "mock", c.Name())

	// Alias
	c, err = reg.Resolve("fancy")
	require.NoError(t, err)
	assert.Equal(t, "mock", c.Name())

	// No match, no fallback
	_, err = reg.Resolve("unknown")
	require.Error(t, err)

	// Fallback
	reg.SetFallback("mock")
	c, err = reg.Resolve("unknown")
	require.NoError(t, err)
	assert.Equal(t, "mock", c.Name())
}

func TestRegistryList(t *testing.T) {
	reg := NewRegistry(silentLog())
	reg.Register("b", &MockClient{ProviderName: "b"})
	reg.Register("a", &MockClient{ProviderName: "a"})
	assert.Equal(t, []string{"a", "b"}, reg.List())
}

func TestSelectModel(t *testing.T) {
	// Single-token classification prompts go to the cheapest model.
	assert.Equal(t, "haiku", SelectModel("Categorize this email. Return ONLY the category name."))

	// Analytical prompts go to the most capable model.
	assert.Equal(t, "opus", SelectModel("Analyze this document thoroughly"))
	assert.Equal(t, "opus", SelectModel("Generate a comparison report"))

	// Very long prompts go to the most capable model.
	assert.Equal(t, "opus", SelectModel(strings.Repeat("words ", 1200)))

	// Everything else lands in the middle tier.
	assert.Equal(t, "sonnet", SelectModel("Draft a polite reply to this email."))
}
