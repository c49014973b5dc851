package quality

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteReport serializes the report as indented JSON, creating parent
// directories as needed.
func WriteReport(path string, report Report) error {
	if report.Findings == nil {
		report.Findings = []Finding{}
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode quality report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
