package engine

import (
	"testing"

	"github.com/picklr-io/planrisk/internal/ir"
	"github.com/stretchr/testify/assert"
)

func TestClassifyAction(t *testing.T) {
	tests := []struct {
		name     string
		actions  []string
		expected ir.ActionType
	}{
		{"create", []string{"create"}, ir.ActionCreate},
		{"update", []string{"update"}, ir.ActionUpdate},
		{"delete", []string{"delete"}, ir.ActionDelete},
		{"delete then create", []string{"delete", "create"}, ir.ActionReplace},
		{"create then delete", []string{"create", "delete"}, ir.ActionReplace},
		{"replace with extras", []string{"update", "create", "read", "delete"}, ir.ActionReplace},
		{"create with update", []string{"update", "create"}, ir.ActionCreate},
		{"delete with update", []string{"update", "delete"}, ir.ActionDelete},
		{"read", []string{"read"}, ir.ActionRead},
		{"update beats read", []string{"read", "update"}, ir.ActionUpdate},
		{"unknown verb", []string{"replace"}, ir.ActionNoOp},
		{"explicit no-op", []string{"no-op"}, ir.ActionNoOp},
		{"empty", []string{}, ir.ActionNoOp},
		{"nil", nil, ir.ActionNoOp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyAction(tt.actions))
		})
	}
}

func TestDiffAttributes(t *testing.T) {
	tests := []struct {
		name     string
		before   map[string]any
		after    map[string]any
		expected []string
	}{
		{
			name:     "both nil",
			expected: []string{},
		},
		{
			name:     "create",
			after:    map[string]any{"b": "x", "a": float64(1)},
			expected: []string{"a", "b"},
		},
		{
			name:     "delete",
			before:   map[string]any{"name": "x"},
			expected: []string{"name"},
		},
		{
			name:     "unchanged",
			before:   map[string]any{"name": "x", "size": float64(3)},
			after:    map[string]any{"name": "x", "size": float64(3)},
			expected: []string{},
		},
		{
			name:     "scalar change",
			before:   map[string]any{"name": "x", "size": float64(3)},
			after:    map[string]any{"name": "x", "size": float64(4)},
			expected: []string{"size"},
		},
		{
			name:     "null differs from absent",
			before:   map[string]any{"description": nil},
			after:    map[string]any{},
			expected: []string{"description"},
		},
		{
			name:     "null equals null",
			before:   map[string]any{"description": nil},
			after:    map[string]any{"description": nil},
			expected: []string{},
		},
		{
			name:     "nested maps compare structurally",
			before:   map[string]any{"tags": map[string]any{"a": "1", "b": "2"}},
			after:    map[string]any{"tags": map[string]any{"b": "2", "a": "1"}},
			expected: []string{},
		},
		{
			name:     "nested change",
			before:   map[string]any{"tags": map[string]any{"env": "dev"}},
			after:    map[string]any{"tags": map[string]any{"env": "prod"}},
			expected: []string{"tags"},
		},
		{
			name:     "list order matters",
			before:   map[string]any{"ids": []any{"a", "b"}},
			after:    map[string]any{"ids": []any{"b", "a"}},
			expected: []string{"ids"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DiffAttributes(tt.before, tt.after))
		})
	}
}
