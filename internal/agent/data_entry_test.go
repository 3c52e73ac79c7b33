package agent

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/cerberus/internal/config"
)

func dataEntryCfg() config.AgentConfig {
	return config.AgentConfig{Name: "entry", Type: config.AgentTypeDataEntry, Enabled: true}
}

func TestDataEntryExtractFromText(t *testing.T) {
	deps := scriptedDeps(t, `Here you go: {"name": "Jane Roe", "email": "jane@roe.io", "phone": null}`)
	a, err := NewDataEntry(dataEntryCfg(), deps)
	require.NoError(t, err)

	res := Run(context.Background(), a, "extract data", Params{"text": "Jane Roe <jane@roe.io>"})
	require.Equal(t, StatusSuccess, res.Status)

	extracted := res.Output["extracted"].(map[string]any)
	assert.Equal(t, "Jane Roe", extracted["name"])
	assert.Equal(t, "text_input", res.Output["source"])
	assert.Equal(t, 0.9, res.Output["confidence"])
}

func TestDataEntryExtractFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "invoice.txt")
	require.NoError(t, os.WriteFile(path, []byte("Invoice #42 for $500"), 0o644))

	deps := scriptedDeps(t, `{"amount": "$500"}`)
	a, err := NewDataEntry(dataEntryCfg(), deps)
	require.NoError(t, err)

	res := Run(context.Background(), a, "extract", Params{"file": path})
	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, path, res.Output["source"])
}

func TestDataEntryExtractNoInput(t *testing.T) {
	a, err := NewDataEntry(dataEntryCfg(), scriptedDeps(t))
	require.NoError(t, err)

	res := Run(context.Background(), a, "extract", nil)
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, "No text provided for extraction", res.Message)
}

func TestDataEntryExtractRawFallback(t *testing.T) {
	deps := scriptedDeps(t, "I could not find any structured data.")
	a, err := NewDataEntry(dataEntryCfg(), deps)
	require.NoError(t, err)

	res := Run(context.Background(), a, "extract", Params{"text": "gibberish"})
	require.Equal(t, StatusSuccess, res.Status)
	extracted := res.Output["extracted"].(map[string]any)
	assert.Equal(t, "I could not find any structured data.", extracted["raw_response"])
}

func TestDataEntryWatchFolder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "b.txt", "c.exe", "d.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755))

	a, err := NewDataEntry(dataEntryCfg(), scriptedDeps(t))
	require.NoError(t, err)

	res := Run(context.Background(), a, "watch folder", Params{"folder": dir})
	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, 3, res.Output["files_found"], "only processable extensions count, directories excluded")
}

func TestDataEntryWatchFolderMissing(t *testing.T) {
	a, err := NewDataEntry(dataEntryCfg(), scriptedDeps(t))
	require.NoError(t, err)

	res := Run(context.Background(), a, "watch", Params{"folder": "/nonexistent/path"})
	assert.Equal(t, StatusError, res.Status)
	assert.Contains(t, res.Message, "Folder not found")
}

func TestDataEntryPopulateCSV(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.csv")

	a, err := NewDataEntry(dataEntryCfg(), scriptedDeps(t))
	require.NoError(t, err)

	res := Run(context.Background(), a, "populate spreadsheet", Params{
		"data": []any{
			map[string]any{"name": "Jane", "amount": 500},
			map[string]any{"name": "Bob", "amount": 125},
		},
		"output_file": out,
	})
	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, 2, res.Output["rows_written"])

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "amount,name", lines[0])
	assert.Equal(t, "500,Jane", lines[1])
}

func TestDataEntryPopulateSingleRecord(t *testing.T) {
	a, err := NewDataEntry(dataEntryCfg(), scriptedDeps(t))
	require.NoError(t, err)

	res := Run(context.Background(), a, "populate", Params{
		"data": map[string]any{"name": "Jane"},
	})
	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, 1, res.Output["rows_written"])

	out := res.Output["output_file"].(string)
	assert.True(t, strings.HasPrefix(filepath.Base(out), "data_"))
	_, err = os.Stat(out)
	assert.NoError(t, err)
}

func TestDataEntryPopulateNoData(t *testing.T) {
	a, err := NewDataEntry(dataEntryCfg(), scriptedDeps(t))
	require.NoError(t, err)

	res := Run(context.Background(), a, "populate", nil)
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, "No data provided", res.Message)
}

func TestDataEntryValidate(t *testing.T) {
	a, err := NewDataEntry(dataEntryCfg(), scriptedDeps(t))
	require.NoError(t, err)

	res := Run(context.Background(), a, "validate data", Params{
		"data": map[string]any{
			"name":   "",
			"email":  "not-an-email",
			"phone":  "555-1234",
			"amount": "abc",
		},
		"rules": map[string]any{
			"name":   map[string]any{"required": true},
			"email":  map[string]any{"type": "email"},
			"phone":  map[string]any{"type": "phone"},
			"amount": map[string]any{"type": "number"},
		},
	})
	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, false, res.Output["is_valid"])

	errs := res.Output["errors"].([]string)
	assert.Contains(t, errs, "Missing required field: name")
	assert.Contains(t, errs, "Invalid email format: email")
	assert.Contains(t, errs, "Expected number for amount")
	assert.Equal(t, 4, res.Output["fields_checked"])
	assert.Empty(t, res.Output["warnings"], "dashed phone digits are accepted")
}

func TestDataEntryValidatePattern(t *testing.T) {
	a, err := NewDataEntry(dataEntryCfg(), scriptedDeps(t))
	require.NoError(t, err)

	res := Run(context.Background(), a, "validate", Params{
		"data":  map[string]any{"zip": "ABCDE"},
		"rules": map[string]any{"zip": map[string]any{"pattern": `^\d{5}$`}},
	})
	require.Equal(t, StatusSuccess, res.Status)
	errs := res.Output["errors"].([]string)
	assert.Contains(t, errs, "Field zip doesn't match pattern")
}

func TestDataEntryValidateClean(t *testing.T) {
	a, err := NewDataEntry(dataEntryCfg(), scriptedDeps(t))
	require.NoError(t, err)

	res := Run(context.Background(), a, "validate", Params{
		"data":  map[string]any{"email": "jane@roe.io"},
		"rules": map[string]any{"email": map[string]any{"type": "email", "required": true}},
	})
	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, true, res.Output["is_valid"])
}

func TestDataEntryTransform(t *testing.T) {
	cfg := dataEntryCfg()
	cfg.Settings = map[string]any{
		"field_mappings": map[string]any{"fullname": "name"},
	}
	a, err := NewDataEntry(cfg, scriptedDeps(t))
	require.NoError(t, err)

	res := Run(context.Background(), a, "transform data", Params{
		"data": map[string]any{"fullname": "Jane Roe", "city": "Oslo"},
	})
	require.Equal(t, StatusSuccess, res.Status)

	transformed := res.Output["transformed"].(map[string]any)
	assert.Equal(t, "Jane Roe", transformed["name"])
	assert.Equal(t, "Oslo", transformed["city"])
	assert.Equal(t, 1, res.Output["mappings_applied"])
}
