package logging

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// Sink is the observability boundary for agent activity. Every call is
// best-effort: write failures are swallowed so that a broken log file can
// never take down an agent run.
type Sink struct {
	log *Logger

	mu   sync.Mutex
	file *os.File
}

// actionEntry is one line of the JSONL action log.
type actionEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
}

// NewSink creates a sink writing structured events through the given logger.
// If path is non-empty, events are additionally appended to a JSONL file.
func NewSink(log *Logger, path string) *Sink {
	s := &Sink{log: log.Sub("observer")}
	if path != "" {
		// Failure to open the file downgrades to logger-only operation.
		if f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600); err == nil {
			s.file = f
		} else {
			s.log.Warn().Err(err).Str("path", path).Msg("action log unavailable")
		}
	}
	return s
}

// LogAction records a structured action event.
func (s *Sink) LogAction(message string, data map[string]any) {
	s.log.Info().Fields(toFields(data)).Msg(message)
	s.append("action", message, data)
}

// LogError records an error event. A nil err is allowed.
func (s *Sink) LogError(message string, err error, data map[string]any) {
	evt := s.log.Error().Fields(toFields(data))
	if err != nil {
		evt = evt.Err(err)
	}
	evt.Msg(message)

	if err != nil {
		if data == nil {
			data = map[string]any{}
		}
		data["error"] = err.Error()
	}
	s.append("error", message, data)
}

// Close releases the action log file, if any.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// append writes one JSONL entry. Errors are deliberately ignored.
func (s *Sink) append(level, message string, data map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return
	}

	entry := actionEntry{
		Timestamp: time.Now().Format(time.RFC3339),
		Level:     level,
		Message:   message,
		Data:      data,
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = s.file.Write(append(line, '\n'))
}

func toFields(data map[string]any) map[string]any {
	if data == nil {
		return map[string]any{}
	}
	return data
}
