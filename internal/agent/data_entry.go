package agent

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/soyeahso/cerberus/internal/config"
	"github.com/soyeahso/cerberus/internal/document"
)

var defaultExtractFields = []string{"name", "email", "phone", "address", "date", "amount"}

var watchableExts = map[string]bool{
	".pdf": true, ".txt": true, ".csv": true, ".png": true, ".jpg": true,
}

// DataEntry automates data extraction and entry: document extraction, folder
// scanning, CSV population, validation, and field transforms.
type DataEntry struct {
	BaseAgent
	docs         *document.Reader
	outputPath   string
	watchFolders []string
	mappings     map[string]any
	rules        map[string]any
	routes       []route
}

// NewDataEntry builds a data entry agent. The output directory is created up
// front so population tasks never race against a missing path.
func NewDataEntry(cfg config.AgentConfig, deps Deps) (*DataEntry, error) {
	a := &DataEntry{BaseAgent: newBase(cfg, deps)}
	a.docs = deps.Docs
	if a.docs == nil {
		a.docs = document.NewReader(deps.Log)
	}

	out := cfg.Setting("output_path", filepath.Join(deps.DataDir, "data"))
	a.outputPath = document.ExpandHome(out)
	if err := os.MkdirAll(a.outputPath, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir %s: %w", a.outputPath, err)
	}

	a.watchFolders = cfg.SettingStrings("watch_folders", nil)
	a.mappings = cfg.SettingMap("field_mappings")
	a.rules = cfg.SettingMap("validation_rules")
	a.routes = []route{
		{name: "extract", keywords: []string{"extract"}, handler: a.extract},
		{name: "watch", keywords: []string{"watch"}, handler: a.watchFolder},
		{name: "populate", keywords: []string{"populate", "spreadsheet"}, handler: a.populate},
		{name: "validate", keywords: []string{"validate"}, handler: a.validate},
		{name: "transform", keywords: []string{"transform"}, handler: a.transform},
	}
	return a, nil
}

func (a *DataEntry) Execute(ctx context.Context, task string, params Params) (*TaskResult, error) {
	return dispatch(ctx, task, params, a.routes, func(ctx context.Context, params Params) (*TaskResult, error) {
		return a.interpretTask(ctx, task)
	})
}

func (a *DataEntry) extract(ctx context.Context, params Params) (*TaskResult, error) {
	text := params.Str("text")
	source := "text_input"
	if file := params.Str("file"); file != "" {
		content, err := a.docs.Read(ctx, file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		text = content
		source = file
	}
	if text == "" {
		return Errorf(a.Name(), "No text provided for extraction"), nil
	}

	fields := params.Strings("fields")
	if len(fields) == 0 {
		fields = defaultExtractFields
	}

	prompt := fmt.Sprintf(`Extract the following fields from this text: %s

Text:
%s

Return as JSON with the field names as keys. Use null for missing fields.
Example: {"name": "John Doe", "email": "john@example.com", "phone": null}`,
		strings.Join(fields, ", "), truncate(text, 2000))

	response, err := a.AskAI(ctx, prompt, "")
	if err != nil {
		return nil, err
	}
	extracted := ExtractJSON(response)

	a.Log("extracted fields", map[string]any{"count": len(extracted), "source": source})

	return Success(a.Name(), "", map[string]any{
		"extracted":  extracted,
		"source":     source,
		"confidence": 0.9,
	}), nil
}

// watchFolder performs a one-shot scan of a folder for processable files.
// A persistent file watcher is out of scope; callers poll via the scheduler.
func (a *DataEntry) watchFolder(ctx context.Context, params Params) (*TaskResult, error) {
	folder := params.Str("folder")
	if folder == "" && len(a.watchFolders) > 0 {
		folder = a.watchFolders[0]
	}
	if folder == "" {
		folder = "~/Downloads"
	}
	folder = document.ExpandHome(folder)

	entries, err := os.ReadDir(folder)
	if err != nil {
		if os.IsNotExist(err) {
			return Errorf(a.Name(), "Folder not found: %s", folder), nil
		}
		return nil, fmt.Errorf("scanning %s: %w", folder, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if watchableExts[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, filepath.Join(folder, e.Name()))
		}
	}
	sort.Strings(files)

	a.Log("scanned watch folder", map[string]any{"folder": folder, "files_found": len(files)})

	shown := files
	if len(shown) > 10 {
		shown = shown[:10]
	}
	return Success(a.Name(), "", map[string]any{
		"folder":      folder,
		"files_found": len(files),
		"files":       shown,
	}), nil
}

func (a *DataEntry) populate(ctx context.Context, params Params) (*TaskResult, error) {
	rows := normalizeRows(params["data"])
	if len(rows) == 0 {
		return Errorf(a.Name(), "No data provided"), nil
	}

	output := params.Str("output_file")
	if output == "" {
		output = filepath.Join(a.outputPath, "data_"+time.Now().Format("20060102_150405")+".csv")
	}
	output = document.ExpandHome(output)

	// Column order follows the first row's keys, sorted for stable output.
	header := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		header = append(header, k)
	}
	sort.Strings(header)

	f, err := os.Create(output)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", output, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	for _, row := range rows {
		record := make([]string, len(header))
		for i, col := range header {
			if v, ok := row[col]; ok && v != nil {
				record[i] = fmt.Sprintf("%v", v)
			}
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing %s: %w", output, err)
	}

	a.Log("wrote spreadsheet", map[string]any{"output_file": output, "rows": len(rows)})

	return Success(a.Name(), "", map[string]any{
		"output_file":  output,
		"rows_written": len(rows),
	}), nil
}

// normalizeRows accepts a single record or a list of records.
func normalizeRows(v any) []map[string]any {
	switch data := v.(type) {
	case map[string]any:
		return []map[string]any{data}
	case []map[string]any:
		return data
	case []any:
		rows := make([]map[string]any, 0, len(data))
		for _, item := range data {
			if m, ok := item.(map[string]any); ok {
				rows = append(rows, m)
			}
		}
		return rows
	}
	return nil
}

func (a *DataEntry) validate(ctx context.Context, params Params) (*TaskResult, error) {
	data := params.Map("data")
	if data == nil {
		return Errorf(a.Name(), "No data provided"), nil
	}
	rules := params.Map("rules")
	if rules == nil {
		rules = a.rules
	}

	var errs, warnings []string
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, field := range keys {
		value := data[field]
		fieldRules, _ := rules[field].(map[string]any)
		str := ""
		if value != nil {
			str = fmt.Sprintf("%v", value)
		}

		if req, _ := fieldRules["required"].(bool); req && str == "" {
			errs = append(errs, "Missing required field: "+field)
		}
		if str != "" {
			switch fieldRules["type"] {
			case "email":
				if !strings.Contains(str, "@") {
					errs = append(errs, "Invalid email format: "+field)
				}
			case "phone":
				digits := strings.NewReplacer("-", "", " ", "", "(", "", ")", "", "+", "").Replace(str)
				if _, err := strconv.ParseUint(digits, 10, 64); err != nil {
					warnings = append(warnings, "Possible invalid phone: "+field)
				}
			case "number":
				if _, err := strconv.ParseFloat(str, 64); err != nil {
					errs = append(errs, "Expected number for "+field)
				}
			}
			if pattern, _ := fieldRules["pattern"].(string); pattern != "" {
				re, err := regexp.Compile(pattern)
				if err != nil {
					warnings = append(warnings, "Invalid pattern for "+field)
				} else if !re.MatchString(str) {
					errs = append(errs, "Field "+field+" doesn't match pattern")
				}
			}
		}
	}

	return Success(a.Name(), "", map[string]any{
		"is_valid":       len(errs) == 0,
		"errors":         errs,
		"warnings":       warnings,
		"fields_checked": len(data),
	}), nil
}

func (a *DataEntry) transform(ctx context.Context, params Params) (*TaskResult, error) {
	data := params.Map("data")
	if data == nil {
		return Errorf(a.Name(), "No data provided"), nil
	}
	mappings := params.Map("mappings")
	if mappings == nil {
		mappings = a.mappings
	}

	transformed := make(map[string]any, len(data))
	applied := 0
	for key, value := range data {
		newKey := key
		if mapped, ok := mappings[key].(string); ok && mapped != "" {
			newKey = mapped
			applied++
		}
		transformed[newKey] = value
	}

	return Success(a.Name(), "", map[string]any{
		"original":         data,
		"transformed":      transformed,
		"mappings_applied": applied,
	}), nil
}

func (a *DataEntry) interpretTask(ctx context.Context, task string) (*TaskResult, error) {
	prompt := fmt.Sprintf(`You are a data entry automation assistant. The user wants to: %s

Available actions:
- Extract data from documents (PDF, images, text)
- Watch folders for new files
- Populate spreadsheets (CSV)
- Validate data against rules
- Transform data formats

Explain what you would do to help with this request.`, task)

	response, err := a.AskAI(ctx, prompt, "")
	if err != nil {
		return nil, err
	}
	return Success(a.Name(), "", map[string]any{"task": task, "ai_response": response}), nil
}
