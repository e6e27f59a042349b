package engine

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/picklr-io/planrisk/internal/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadPlan(t *testing.T, path string) *ir.Plan {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var plan ir.Plan
	require.NoError(t, json.Unmarshal(data, &plan))
	return &plan
}

func change(address, typ string, actions []string, before, after map[string]any) *ir.ResourceChange {
	return &ir.ResourceChange{
		Address: address,
		Type:    typ,
		Change:  &ir.Change{Actions: actions, Before: before, After: after},
	}
}

func TestEngine_AnalyzeSamplePlan(t *testing.T) {
	eng := NewEngine(nil, nil)
	analysis := eng.Analyze(loadPlan(t, "testdata/sample_plan.json"))

	assert.Equal(t, 10, analysis.TotalResources)
	assert.Equal(t, 3, analysis.Creates)
	assert.Equal(t, 4, analysis.Updates)
	assert.Equal(t, 2, analysis.Deletes)
	assert.Equal(t, 0, analysis.Replaces)
	assert.Equal(t, 1, analysis.NoOps)
	assert.Equal(t, 0, analysis.Reads)

	var order []string
	var scores []int
	for _, r := range analysis.Resources {
		order = append(order, r.Address)
		scores = append(scores, r.RiskScore)
	}
	assert.Equal(t, []string{
		"aws_s3_bucket.assets",
		"aws_efs_file_system.shared",
		"aws_security_group.web",
		"aws_iam_role.app_role",
		"aws_db_instance.primary",
		"aws_lambda_function.processor",
		"aws_instance.web[0]",
		"aws_instance.web[1]",
		"aws_route53_record.api",
		"aws_cloudwatch_log_group.app",
	}, order)
	assert.Equal(t, []int{120, 95, 60, 55, 35, 35, 25, 25, 25, 0}, scores)

	// ["update", "replace"] carries no create/delete verb, so it is an update.
	db := analysis.Resources[4]
	assert.Equal(t, ir.ActionUpdate, db.Action)
	assert.Equal(t, []string{"Cost increase of 81%"}, db.RiskReasons)
	assert.True(t, db.IsStateful)
	assert.True(t, db.IsProduction)
	assert.Equal(t, []string{"instance_class"}, db.ChangedAttributes)

	assert.InDelta(t, 965.0/15.0, analysis.OverallRiskScore, 1e-9)
	assert.Equal(t, ir.RiskCritical, analysis.OverallRiskLevel)

	assert.InDelta(t, 62.963, analysis.TotalCostBefore, 1e-9)
	assert.InDelta(t, 243.26, analysis.TotalCostAfter, 1e-9)
	assert.InDelta(t, analysis.TotalCostAfter-analysis.TotalCostBefore, analysis.CostDelta, 1e-12)
	assert.True(t, analysis.CostAvailable)

	require.Len(t, analysis.HighRiskResources, 3)
	assert.Equal(t, "aws_s3_bucket.assets", analysis.HighRiskResources[0].Address)
	assert.Equal(t, "aws_security_group.web", analysis.HighRiskResources[2].Address)

	assert.Equal(t, []string{
		"aws_s3_bucket.assets (delete) — Resource deletion",
		"aws_efs_file_system.shared (delete) — Resource deletion",
	}, analysis.CriticalIssues)
	assert.Equal(t, []string{
		"aws_security_group.web (update) — Security group opens sensitive ports to public internet",
	}, analysis.Warnings)
}

func TestEngine_AnalyzeEmptyPlan(t *testing.T) {
	eng := NewEngine(nil, nil)

	for name, plan := range map[string]*ir.Plan{
		"nil plan":   nil,
		"nil list":   {},
		"empty list": {ResourceChanges: []*ir.ResourceChange{}},
	} {
		t.Run(name, func(t *testing.T) {
			analysis := eng.Analyze(plan)
			assert.Equal(t, 0, analysis.TotalResources)
			assert.Equal(t, 0.0, analysis.OverallRiskScore)
			assert.Equal(t, ir.RiskSafe, analysis.OverallRiskLevel)
			assert.False(t, analysis.CostAvailable)
			assert.Empty(t, analysis.Warnings)
			assert.Empty(t, analysis.CriticalIssues)

			data, err := json.Marshal(analysis)
			require.NoError(t, err)
			assert.Contains(t, string(data), `"resources":[]`)
			assert.Contains(t, string(data), `"warnings":[]`)
		})
	}
}

func TestEngine_ComputeInstanceCreate(t *testing.T) {
	eng := NewEngine(nil, nil)
	analysis := eng.Analyze(&ir.Plan{ResourceChanges: []*ir.ResourceChange{
		change("aws_instance.app", "aws_instance", []string{"create"}, nil, map[string]any{"instance_type": "t3.micro"}),
	}})

	r := analysis.Resources[0]
	assert.Equal(t, ir.ActionCreate, r.Action)
	assert.InDelta(t, 7.59, r.CostAfter, 1e-9)
	assert.Equal(t, 0.0, r.CostBefore)
	// create (10) plus the cost rule, which counts growth from zero as 100%.
	assert.Equal(t, 25, r.RiskScore)
	assert.Equal(t, ir.RiskLow, r.RiskLevel)
	assert.Equal(t, []string{"Cost increase of 100%"}, r.RiskReasons)
}

func TestEngine_UnpricedCreateIsSafe(t *testing.T) {
	eng := NewEngine(nil, nil)
	analysis := eng.Analyze(&ir.Plan{ResourceChanges: []*ir.ResourceChange{
		change("aws_vpc.main", "aws_vpc", []string{"create"}, nil, map[string]any{"cidr_block": "10.0.0.0/16"}),
	}})

	r := analysis.Resources[0]
	assert.Equal(t, 10, r.RiskScore)
	assert.Equal(t, ir.RiskSafe, r.RiskLevel)
	assert.Equal(t, ir.RiskSafe, analysis.OverallRiskLevel)
	assert.False(t, analysis.CostAvailable)
}

func TestEngine_NegativeSizesNeverGoBelowZero(t *testing.T) {
	eng := NewEngine(nil, nil)
	analysis := eng.Analyze(&ir.Plan{ResourceChanges: []*ir.ResourceChange{
		change("aws_instance.app", "aws_instance", []string{"create"}, nil, map[string]any{
			"root_block_device": map[string]any{"volume_size": float64(-500)},
		}),
		change("aws_db_instance.main", "aws_db_instance", []string{"create"}, nil, map[string]any{
			"allocated_storage": "-1000",
		}),
	}})

	for _, r := range analysis.Resources {
		assert.Equal(t, 0.0, r.CostAfter, r.Address)
		assert.Equal(t, 0.0, r.CostDelta, r.Address)
		assert.Equal(t, 10, r.RiskScore, r.Address)
	}
	assert.Equal(t, 0.0, analysis.TotalCostAfter)
}

func TestEngine_HighRiskScenarios(t *testing.T) {
	eng := NewEngine(nil, nil)

	t.Run("bucket delete", func(t *testing.T) {
		r := eng.AnalyzeResource(change("aws_s3_bucket.logs", "aws_s3_bucket", []string{"delete"},
			map[string]any{"bucket": "logs", "force_destroy": false, "versioning": map[string]any{"enabled": true}}, nil))
		assert.Equal(t, 95, r.RiskScore)
		assert.Equal(t, ir.RiskCritical, r.RiskLevel)
		assert.Len(t, r.RiskReasons, 4)
		assert.InDelta(t, -0.023, r.CostDelta, 1e-12)
	})

	t.Run("iam escalation", func(t *testing.T) {
		r := eng.AnalyzeResource(change("aws_iam_role.app", "aws_iam_role", []string{"update"},
			map[string]any{"managed_policy_arns": []any{}},
			map[string]any{"managed_policy_arns": []any{"arn:aws:iam::aws:policy/AmazonEC2FullAccess"}}))
		assert.Equal(t, 55, r.RiskScore)
		assert.Equal(t, ir.RiskMedium, r.RiskLevel)
		assert.Contains(t, r.RiskReasons, "IAM policy change widens permissions")
	})

	t.Run("security group", func(t *testing.T) {
		r := eng.AnalyzeResource(change("aws_security_group.bastion", "aws_security_group", []string{"update"},
			map[string]any{"ingress": []any{}},
			map[string]any{"ingress": []any{map[string]any{"from_port": float64(22), "cidr_blocks": []any{"0.0.0.0/0"}}}}))
		assert.Equal(t, 60, r.RiskScore)
		assert.Equal(t, ir.RiskHigh, r.RiskLevel)
	})
}

func TestEngine_OverallScoreClamped(t *testing.T) {
	eng := NewEngine(nil, nil)
	analysis := eng.Analyze(&ir.Plan{ResourceChanges: []*ir.ResourceChange{
		change("aws_s3_bucket.assets", "aws_s3_bucket", []string{"delete"},
			map[string]any{"force_destroy": false, "versioning": map[string]any{"enabled": true}, "tags": map[string]any{"env": "prod"}}, nil),
	}})

	assert.Equal(t, 120, analysis.Resources[0].RiskScore)
	assert.Equal(t, 100.0, analysis.OverallRiskScore)
	assert.Equal(t, ir.RiskCritical, analysis.OverallRiskLevel)
}

func TestEngine_OverallLevelFromAverage(t *testing.T) {
	assert.Equal(t, ir.RiskCritical, overallLevel(0, 70))
	assert.Equal(t, ir.RiskHigh, overallLevel(10, 50))
	assert.Equal(t, ir.RiskMedium, overallLevel(0, 30))
	assert.Equal(t, ir.RiskLow, overallLevel(0, 15))
	assert.Equal(t, ir.RiskLow, overallLevel(20, 0))
	assert.Equal(t, ir.RiskSafe, overallLevel(19, 14.9))
}

func TestEngine_StableOrderingOnTies(t *testing.T) {
	eng := NewEngine(nil, nil)
	var changes []*ir.ResourceChange
	for _, addr := range []string{"null_resource.a", "null_resource.b", "null_resource.c"} {
		changes = append(changes, change(addr, "null_resource", []string{"update"}, map[string]any{}, map[string]any{}))
	}
	changes = append(changes, change("null_resource.d", "null_resource", []string{"delete"}, map[string]any{}, nil))

	analysis := eng.Analyze(&ir.Plan{ResourceChanges: changes})

	var order []string
	for _, r := range analysis.Resources {
		order = append(order, r.Address)
	}
	assert.Equal(t, []string{"null_resource.d", "null_resource.a", "null_resource.b", "null_resource.c"}, order)
}

func TestEngine_WarningFallbacks(t *testing.T) {
	assert.Equal(t, "x.y (update) — Elevated risk",
		issueLine(&ir.AnalyzedResource{Address: "x.y", Action: ir.ActionUpdate}, "Elevated risk"))
	assert.Equal(t, "x.y (delete) — Resource deletion",
		issueLine(&ir.AnalyzedResource{Address: "x.y", Action: ir.ActionDelete, RiskReasons: []string{"Resource deletion"}}, "High risk operation"))
}

func TestEngine_Idempotent(t *testing.T) {
	eng := NewEngine(nil, nil)
	plan := loadPlan(t, "testdata/sample_plan.json")

	first, err := json.Marshal(eng.Analyze(plan))
	require.NoError(t, err)
	second, err := json.Marshal(eng.Analyze(plan))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestEngine_CostDeltaInvariant(t *testing.T) {
	eng := NewEngine(nil, nil)
	for _, r := range eng.Analyze(loadPlan(t, "testdata/sample_plan.json")).Resources {
		assert.Equal(t, r.CostAfter-r.CostBefore, r.CostDelta, r.Address)
		assert.GreaterOrEqual(t, r.RiskScore, 0)
		assert.Equal(t, ir.LevelForScore(r.RiskScore), r.RiskLevel)
	}
}

func TestEngine_MissingChangeBlock(t *testing.T) {
	eng := NewEngine(nil, nil)
	r := eng.AnalyzeResource(&ir.ResourceChange{Address: "aws_instance.x", Type: "aws_instance"})

	assert.Equal(t, ir.ActionNoOp, r.Action)
	assert.Equal(t, 0, r.RiskScore)
	assert.Equal(t, []string{}, r.Actions)
	assert.Empty(t, r.ChangedAttributes)
}

func TestEngine_CostAvailableRequiresPricedNonZero(t *testing.T) {
	eng := NewEngine(nil, nil)

	analysis := eng.Analyze(&ir.Plan{ResourceChanges: []*ir.ResourceChange{
		change("aws_iam_role.r", "aws_iam_role", []string{"create"}, nil, map[string]any{}),
	}})
	assert.False(t, analysis.CostAvailable)

	analysis = eng.Analyze(&ir.Plan{ResourceChanges: []*ir.ResourceChange{
		change("google_storage_bucket.b", "google_storage_bucket", []string{"create"}, nil, map[string]any{}),
	}})
	assert.False(t, analysis.CostAvailable)
}
