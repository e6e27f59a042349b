package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/picklr-io/planrisk/internal/ir"
)

// Marshal encodes an analysis as indented JSON.
func Marshal(a *ir.PlanAnalysis) ([]byte, error) {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteJSON writes the indented JSON encoding of a to w.
func WriteJSON(w io.Writer, a *ir.PlanAnalysis) error {
	data, err := Marshal(a)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write analysis: %w", err)
	}
	return nil
}

// WriteJSONFile writes the JSON report to path.
func WriteJSONFile(path string, a *ir.PlanAnalysis) error {
	data, err := Marshal(a)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}
