package build

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// stageLogger appends one JSON line per pipeline transition to the build
// summary log, so external tools can follow long builds without parsing
// stderr.
type stageLogger struct {
	mu   sync.Mutex
	path string
	base map[string]any
}

func newStageLogger(path, inputDir, outputDir string, createdAt time.Time) (*stageLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// Each build starts a fresh log.
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return nil, err
	}
	return &stageLogger{
		path: path,
		base: map[string]any{
			"input_dir":  inputDir,
			"output_dir": outputDir,
			"created_at": createdAt.Format(time.RFC3339),
		},
	}, nil
}

// log appends one stage record. Logging failures are swallowed; the summary
// log is best-effort observability, never a build failure.
func (l *stageLogger) log(stage string, extra map[string]any) {
	if l == nil {
		return
	}
	payload := make(map[string]any, len(l.base)+len(extra)+1)
	for key, value := range l.base {
		payload[key] = value
	}
	for key, value := range extra {
		payload[key] = value
	}
	payload["stage"] = stage
	line, err := json.Marshal(payload)
	if err != nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	f.Write(append(line, '\n'))
}
