package agent

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/soyeahso/cerberus/internal/config"
	"github.com/soyeahso/cerberus/internal/document"
)

var defaultInfoTypes = []string{"dates", "names", "amounts", "locations", "organizations"}

var summaryLengthInstructions = map[string]string{
	"short":  "in 2-3 sentences",
	"medium": "in a short paragraph (4-6 sentences)",
	"long":   "in 2-3 paragraphs with key details",
}

// DocProcessor processes documents: summarization, info extraction,
// auto-filing into category folders, report generation, and analysis.
type DocProcessor struct {
	BaseAgent
	docs          *document.Reader
	fileCats      map[string]string // category -> directory
	catNames      []string          // sorted, for prompts and coercion
	summaryLength string
	routes        []route
}

// NewDocProcessor builds a document processor agent. Filing directories are
// created up front; failure is a configuration error surfaced at load time.
func NewDocProcessor(cfg config.AgentConfig, deps Deps) (*DocProcessor, error) {
	a := &DocProcessor{BaseAgent: newBase(cfg, deps)}
	a.docs = deps.Docs
	if a.docs == nil {
		a.docs = document.NewReader(deps.Log)
	}

	a.fileCats = map[string]string{}
	for cat, v := range cfg.SettingMap("categories") {
		if dir, ok := v.(string); ok && dir != "" {
			a.fileCats[strings.ToLower(cat)] = dir
		}
	}
	if len(a.fileCats) == 0 {
		base := filepath.Join(deps.DataDir, "documents")
		for _, cat := range []string{"invoices", "contracts", "reports", "receipts", "personal", "other"} {
			a.fileCats[cat] = filepath.Join(base, cat)
		}
	}
	for cat := range a.fileCats {
		a.catNames = append(a.catNames, cat)
	}
	sort.Strings(a.catNames)
	for _, dir := range a.fileCats {
		if err := os.MkdirAll(document.ExpandHome(dir), 0o755); err != nil {
			return nil, fmt.Errorf("creating filing dir %s: %w", dir, err)
		}
	}

	a.summaryLength = cfg.Setting("summary_length", "medium")
	a.routes = []route{
		{name: "summarize", keywords: []string{"summarize", "summary"}, handler: a.summarize},
		{name: "extract", keywords: []string{"extract"}, handler: a.extractInfo},
		{name: "file", keywords: []string{"file", "organize"}, handler: a.autoFile},
		{name: "report", keywords: []string{"report"}, handler: a.generateReport},
		{name: "analyze", keywords: []string{"analyze"}, handler: a.analyze},
	}
	return a, nil
}

func (a *DocProcessor) Execute(ctx context.Context, task string, params Params) (*TaskResult, error) {
	return dispatch(ctx, task, params, a.routes, func(ctx context.Context, params Params) (*TaskResult, error) {
		return a.interpretTask(ctx, task)
	})
}

// readInput resolves the document source for tasks that accept either a
// file path or raw text. source is "text_input" for raw text.
func (a *DocProcessor) readInput(ctx context.Context, params Params) (content, source string, err error) {
	if file := params.Str("file"); file != "" {
		content, err = a.docs.Read(ctx, file)
		if err != nil {
			return "", "", fmt.Errorf("reading %s: %w", file, err)
		}
		return content, file, nil
	}
	if text := params.Str("text"); text != "" {
		return text, "text_input", nil
	}
	return "", "", nil
}

func (a *DocProcessor) summarize(ctx context.Context, params Params) (*TaskResult, error) {
	content, source, err := a.readInput(ctx, params)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return Errorf(a.Name(), "No document or text provided"), nil
	}
	wordCount := document.WordCount(content)

	length := params.Str("length")
	if length == "" {
		length = a.summaryLength
	}
	instruction := summaryLengthInstructions[length]
	if instruction == "" {
		instruction = "concisely"
	}

	prompt := fmt.Sprintf(`Summarize the following document %s:

%s

Also extract 3-5 key points as a bullet list.`, instruction, truncate(content, 4000))

	response, err := a.AskAI(ctx, prompt, "")
	if err != nil {
		return nil, err
	}

	a.Log("summarized document", map[string]any{"source": source, "word_count": wordCount})

	return Success(a.Name(), "", map[string]any{
		"summary":    response,
		"key_points": parseKeyPoints(response, 5),
		"word_count": wordCount,
		"source":     source,
	}), nil
}

// parseKeyPoints pulls bullet or numbered lines out of model output.
func parseKeyPoints(response string, max int) []string {
	points := make([]string, 0, max)
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "•") || strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") ||
			(line[0] >= '0' && line[0] <= '9') {
			point := strings.TrimLeft(line, "•-*0123456789. \t")
			if point != "" {
				points = append(points, point)
			}
			if len(points) == max {
				break
			}
		}
	}
	return points
}

func (a *DocProcessor) extractInfo(ctx context.Context, params Params) (*TaskResult, error) {
	content, source, err := a.readInput(ctx, params)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return Errorf(a.Name(), "No document or text provided"), nil
	}

	infoTypes := params.Strings("info_types")
	if len(infoTypes) == 0 {
		infoTypes = defaultInfoTypes
	}

	prompt := fmt.Sprintf(`Extract the following information from this document:
%s

Document:
%s

Return as JSON with each info type as a key and a list of found values.
Example: {"dates": ["2024-01-15", "2024-02-01"], "amounts": ["$500", "$1,200"]}`,
		strings.Join(infoTypes, ", "), truncate(content, 3000))

	response, err := a.AskAI(ctx, prompt, "")
	if err != nil {
		return nil, err
	}

	return Success(a.Name(), "", map[string]any{
		"extracted":  ExtractJSON(response),
		"source":     source,
		"info_types": infoTypes,
	}), nil
}

func (a *DocProcessor) autoFile(ctx context.Context, params Params) (*TaskResult, error) {
	file := params.Str("file")
	if file == "" {
		return Errorf(a.Name(), "No file provided"), nil
	}
	path := document.ExpandHome(file)
	if _, err := os.Stat(path); err != nil {
		return Errorf(a.Name(), "File not found: %s", file), nil
	}

	content, err := a.docs.Read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	prompt := fmt.Sprintf(`Categorize this document into one of these categories: %s

Document name: %s
Content preview: %s

Return ONLY the category name, nothing else.`,
		strings.Join(a.catNames, ", "), filepath.Base(path), truncate(content, 500))

	answer, err := a.AskAI(ctx, prompt, "")
	if err != nil {
		return nil, err
	}
	category := CoerceCategory(answer, a.catNames, "other")

	destDir := document.ExpandHome(a.fileCats[category])
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", destDir, err)
	}

	// Duplicate names get a numeric suffix rather than overwriting.
	name := filepath.Base(path)
	dest := filepath.Join(destDir, name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			break
		}
		dest = filepath.Join(destDir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
	}

	if err := copyFile(path, dest); err != nil {
		return nil, fmt.Errorf("filing %s: %w", path, err)
	}

	a.Log("filed document", map[string]any{"file": name, "category": category})

	return Success(a.Name(), "", map[string]any{
		"original":    path,
		"destination": dest,
		"category":    category,
	}), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (a *DocProcessor) generateReport(ctx context.Context, params Params) (*TaskResult, error) {
	documents := params.Strings("documents")
	if len(documents) == 0 {
		return Errorf(a.Name(), "No documents provided"), nil
	}
	reportType := params.Str("report_type")
	if reportType == "" {
		reportType = "summary"
	}

	var docsSummary strings.Builder
	for _, doc := range documents {
		content, err := a.docs.Read(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", doc, err)
		}
		fmt.Fprintf(&docsSummary, "Document: %s\nContent: %s...\n\n", doc, truncate(content, 500))
	}

	var prompt string
	switch reportType {
	case "summary":
		prompt = fmt.Sprintf(`Generate a summary report from these documents:

%s

Create a professional report with:
1. Executive Summary
2. Key Findings
3. Recommendations (if applicable)`, docsSummary.String())
	case "comparison":
		prompt = fmt.Sprintf(`Compare these documents and generate a comparison report:

%s

Highlight similarities, differences, and notable points.`, docsSummary.String())
	default:
		prompt = fmt.Sprintf(`Analyze these documents and generate a report:

%s

Provide insights, patterns, and key takeaways.`, docsSummary.String())
	}

	report, err := a.AskAI(ctx, prompt, "")
	if err != nil {
		return nil, err
	}

	title := params.Str("title")
	if title == "" {
		title = "Report - " + time.Now().Format("2006-01-02")
	}

	return Success(a.Name(), "", map[string]any{
		"title":              title,
		"report":             report,
		"documents_analyzed": len(documents),
		"report_type":        reportType,
	}), nil
}

func (a *DocProcessor) analyze(ctx context.Context, params Params) (*TaskResult, error) {
	content, source, err := a.readInput(ctx, params)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return Errorf(a.Name(), "No document or text provided"), nil
	}

	prompt := fmt.Sprintf(`Analyze this document thoroughly:

%s

Provide:
1. Document type and purpose
2. Main topics covered
3. Tone and style
4. Key entities mentioned (people, organizations, places)
5. Any action items or next steps implied
6. Overall assessment`, truncate(content, 4000))

	analysis, err := a.AskAI(ctx, prompt, "")
	if err != nil {
		return nil, err
	}

	return Success(a.Name(), "", map[string]any{
		"analysis":    analysis,
		"source":      source,
		"word_count":  document.WordCount(content),
		"analyzed_at": time.Now().Format(time.RFC3339),
	}), nil
}

func (a *DocProcessor) interpretTask(ctx context.Context, task string) (*TaskResult, error) {
	prompt := fmt.Sprintf(`You are a document processing assistant. The user wants to: %s

Available actions:
- Summarize documents
- Extract specific information
- Auto-file documents to folders
- Generate reports
- Analyze document content

Explain what you would do to help with this request.`, task)

	response, err := a.AskAI(ctx, prompt, "")
	if err != nil {
		return nil, err
	}
	return Success(a.Name(), "", map[string]any{"task": task, "ai_response": response}), nil
}
