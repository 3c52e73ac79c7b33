// Package document reads text out of local files for the document-driven
// agents. PDF and image extraction shell out to pdftotext and tesseract;
// when those tools are missing the reader degrades to a bracketed
// placeholder instead of failing.
package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/soyeahso/cerberus/internal/logging"
)

// ErrNotFound is returned when the requested file does not exist.
var ErrNotFound = errors.New("document not found")

// Reader extracts plain text from documents on disk.
type Reader struct {
	log *logging.Logger
}

// NewReader creates a document reader.
func NewReader(log *logging.Logger) *Reader {
	return &Reader{log: log.Sub("document")}
}

// Read returns the text content of the file at path.
func (r *Reader) Read(ctx context.Context, path string) (string, error) {
	path = ExpandHome(path)

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".csv", ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil

	case ".pdf":
		return r.extract(ctx, path, "pdftotext", path, "-")

	case ".png", ".jpg", ".jpeg":
		return r.extract(ctx, path, "tesseract", path, "stdout")

	default:
		// Unknown extension: try plain text, placeholder on binary junk.
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

// extract runs an external text-extraction tool. A missing tool is not an
// error: the caller gets a placeholder the AI can at least acknowledge.
func (r *Reader) extract(ctx context.Context, path, tool string, args ...string) (string, error) {
	if _, err := exec.LookPath(tool); err != nil {
		r.log.Warn().Str("tool", tool).Str("file", path).Msg("extraction tool not installed")
		return fmt.Sprintf("[%s document: %s - text extraction unavailable]", strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), ".")), filepath.Base(path)), nil
	}

	out, err := exec.CommandContext(ctx, tool, args...).Output()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", tool, filepath.Base(path), err)
	}
	return string(out), nil
}

// WordCount counts whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ExpandHome resolves a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
