package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/picklr-io/planrisk/internal/ir"
)

const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
)

// colorize returns the ANSI code unless color output is disabled.
func colorize(code string) string {
	if noColor {
		return ""
	}
	return code
}

// useColor reports whether w is a terminal and color has not been disabled.
func useColor(w io.Writer) bool {
	if noColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ThresholdError reports that a plan's overall risk reached the --fail-on level.
type ThresholdError struct {
	Level     ir.RiskLevel
	Threshold ir.RiskLevel
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("overall risk %s meets fail-on threshold %s", e.Level, e.Threshold)
}

// ExitCode maps a command error to a process exit status: 0 on success,
// 2 for a tripped risk threshold, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var te *ThresholdError
	if errors.As(err, &te) {
		return 2
	}
	return 1
}

// checkThreshold returns a ThresholdError when level is at or above failOn.
// An empty failOn disables the gate.
func checkThreshold(level ir.RiskLevel, failOn string) error {
	if failOn == "" {
		return nil
	}
	threshold, err := ir.ParseRiskLevel(failOn)
	if err != nil {
		return fmt.Errorf("invalid --fail-on: %w", err)
	}
	if level.AtLeast(threshold) {
		return &ThresholdError{Level: level, Threshold: threshold}
	}
	return nil
}

// reportName derives a unique report name from the plan location.
func reportName(location string, now time.Time) string {
	base := "stdin"
	if location != "-" {
		base = strings.TrimSuffix(path.Base(location), path.Ext(location))
	}
	return fmt.Sprintf("%s-%s-%s", base, now.UTC().Format("20060102T150405Z"), uuid.NewString()[:8])
}
