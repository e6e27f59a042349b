package planfile

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/picklr-io/planrisk/internal/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantErr   bool
		wantCount int
	}{
		{name: "empty list", input: `{"resource_changes": []}`, wantCount: 0},
		{name: "one change", input: `{"resource_changes": [{"address": "aws_vpc.main", "type": "aws_vpc", "change": {"actions": ["create"], "before": null, "after": {}}}]}`, wantCount: 1},
		{name: "extra fields ignored", input: `{"format_version": "1.2", "planned_values": {}, "resource_changes": []}`, wantCount: 0},
		{name: "not json", input: `resource_changes`, wantErr: true},
		{name: "array document", input: `[]`, wantErr: true},
		{name: "null document", input: `null`, wantErr: true},
		{name: "missing resource_changes", input: `{"format_version": "1.2"}`, wantErr: true},
		{name: "null resource_changes", input: `{"resource_changes": null}`, wantErr: true},
		{name: "resource_changes not a list", input: `{"resource_changes": {"a": 1}}`, wantErr: true},
		{name: "empty input", input: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Parse([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedInput)
				return
			}
			require.NoError(t, err)
			assert.Len(t, plan.ResourceChanges, tt.wantCount)
			assert.NotNil(t, plan.ResourceChanges)
		})
	}
}

func TestParseKeepsChangeDetail(t *testing.T) {
	plan, err := Parse([]byte(`{
		"resource_changes": [{
			"address": "aws_db_instance.primary",
			"type": "aws_db_instance",
			"change": {
				"actions": ["delete", "create"],
				"before": {"allocated_storage": 100},
				"after": null,
				"after_unknown": {"id": true}
			}
		}]
	}`))
	require.NoError(t, err)

	rc := plan.ResourceChanges[0]
	assert.Equal(t, "aws_db_instance.primary", rc.Address)
	assert.Equal(t, []string{"delete", "create"}, rc.Actions())
	assert.Equal(t, float64(100), rc.Before()["allocated_storage"])
	assert.Nil(t, rc.After())
}

func TestOpenFile(t *testing.T) {
	plan, err := Open(context.Background(), &SourceConfig{Location: filepath.Join("testdata", "plan.json")})
	require.NoError(t, err)
	assert.Len(t, plan.ResourceChanges, 10)
	assert.Equal(t, "1.6.0", plan.TerraformVersion)
}

func TestOpenFileMissing(t *testing.T) {
	_, err := Open(context.Background(), &SourceConfig{Location: filepath.Join(t.TempDir(), "nope.json")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestOpenFileMalformed(t *testing.T) {
	_, err := Open(context.Background(), &SourceConfig{Location: filepath.Join("testdata", "no_changes_key.json")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedInput)
	assert.Contains(t, err.Error(), "no_changes_key.json")
}

func TestOpenStdin(t *testing.T) {
	plan, err := Open(context.Background(), &SourceConfig{
		Location: "-",
		Stdin:    strings.NewReader(`{"resource_changes": [{"address": "null_resource.x", "type": "null_resource"}]}`),
	})
	require.NoError(t, err)
	require.Len(t, plan.ResourceChanges, 1)
	assert.Equal(t, []*ir.ResourceChange{{Address: "null_resource.x", Type: "null_resource"}}, plan.ResourceChanges)
}

func TestNewSourceRejectsBadConfig(t *testing.T) {
	_, err := NewSource(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil")

	_, err = NewSource(&SourceConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestNewSourceSelectsKind(t *testing.T) {
	src, err := NewSource(&SourceConfig{Location: "plan.json"})
	require.NoError(t, err)
	assert.IsType(t, &fileSource{}, src)
	assert.Equal(t, "plan.json", src.String())

	src, err = NewSource(&SourceConfig{Location: "-"})
	require.NoError(t, err)
	assert.IsType(t, &readerSource{}, src)
	assert.Equal(t, "stdin", src.String())
}
