package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/cerberus/internal/agent"
)

func TestParseValue(t *testing.T) {
	assert.Equal(t, true, parseValue("true"))
	assert.Equal(t, false, parseValue("FALSE"))
	assert.Equal(t, 8417, parseValue("8417"))
	assert.Equal(t, 2.5, parseValue("2.5"))
	assert.Equal(t, "loopback", parseValue("loopback"))
}

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"file=report.pdf", "category=invoices"})
	require.NoError(t, err)
	assert.Equal(t, agent.Params{"file": "report.pdf", "category": "invoices"}, params)
}

func TestParseParamsEmpty(t *testing.T) {
	params, err := parseParams(nil)
	require.NoError(t, err)
	assert.Nil(t, params)
}

func TestParseParamsRejectsMalformed(t *testing.T) {
	_, err := parseParams([]string{"no-equals"})
	assert.Error(t, err)

	_, err = parseParams([]string{"=value"})
	assert.Error(t, err)
}

func TestParseParamsKeepsEqualsInValue(t *testing.T) {
	params, err := parseParams([]string{"text=a=b"})
	require.NoError(t, err)
	assert.Equal(t, "a=b", params["text"])
}
