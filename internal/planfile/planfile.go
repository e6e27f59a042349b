// Package planfile loads Terraform JSON plans from local files, stdin or S3
// and checks that they have the shape the analysis engine expects.
package planfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/picklr-io/planrisk/internal/ir"
	"github.com/picklr-io/planrisk/internal/logging"
)

var (
	// ErrMalformedInput is returned when the input is not a JSON object with
	// a resource_changes list.
	ErrMalformedInput = errors.New("malformed plan input")

	// ErrPlanNotFound is returned when the plan location does not exist.
	ErrPlanNotFound = errors.New("plan not found")
)

// Parse decodes a JSON plan. The document must be an object carrying a
// non-null resource_changes array.
func Parse(data []byte) (*ir.Plan, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	raw, ok := doc["resource_changes"]
	if !ok || string(raw) == "null" {
		return nil, fmt.Errorf("%w: missing resource_changes", ErrMalformedInput)
	}

	var plan ir.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if plan.ResourceChanges == nil {
		plan.ResourceChanges = []*ir.ResourceChange{}
	}
	return &plan, nil
}

// Open reads the plan described by cfg and parses it.
func Open(ctx context.Context, cfg *SourceConfig) (*ir.Plan, error) {
	src, err := NewSource(cfg)
	if err != nil {
		return nil, err
	}

	data, err := src.Read(ctx)
	if err != nil {
		return nil, err
	}
	logging.Debug("plan read", "source", src.String(), "bytes", len(data))

	plan, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", src, err)
	}
	return plan, nil
}
