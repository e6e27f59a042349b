package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/picklr-io/planrisk/internal/ir"
	"github.com/picklr-io/planrisk/internal/logging"
	"github.com/picklr-io/planrisk/internal/pricing"
)

// Engine turns a plan into a risk and cost assessment. It holds only
// read-only tables, so one Engine can serve concurrent callers.
type Engine struct {
	prices *pricing.Table
	rules  *Ruleset
}

// NewEngine returns an engine over the given tables. Nil arguments select
// the built-in defaults.
func NewEngine(prices *pricing.Table, rules *Ruleset) *Engine {
	if prices == nil {
		prices = pricing.Default()
	}
	if rules == nil {
		rules = DefaultRuleset()
	}
	return &Engine{
		prices: prices,
		rules:  rules,
	}
}

// Prices returns the engine's price table.
func (e *Engine) Prices() *pricing.Table {
	return e.prices
}

// AnalyzeResource classifies, prices and scores one resource change.
func (e *Engine) AnalyzeResource(rc *ir.ResourceChange) *ir.AnalyzedResource {
	if rc == nil {
		rc = &ir.ResourceChange{}
	}
	before, after := rc.Before(), rc.After()

	subject := Subject{
		Type:              rc.Type,
		Action:            ClassifyAction(rc.Actions()),
		Before:            before,
		After:             after,
		IsStateful:        e.rules.IsStateful(rc.Type),
		IsProduction:      e.rules.IsProduction(before, after),
		ChangedAttributes: DiffAttributes(before, after),
		CostBefore:        e.prices.Estimate(rc.Type, before),
		CostAfter:         e.prices.Estimate(rc.Type, after),
	}
	assessment := e.rules.Score(subject)

	actions := rc.Actions()
	if actions == nil {
		actions = []string{}
	}

	return &ir.AnalyzedResource{
		Address:            rc.Address,
		Type:               rc.Type,
		Action:             subject.Action,
		Actions:            actions,
		RiskLevel:          assessment.Level,
		RiskScore:          assessment.Score,
		RiskReasons:        assessment.Reasons,
		CostBefore:         subject.CostBefore,
		CostAfter:          subject.CostAfter,
		CostDelta:          subject.CostAfter - subject.CostBefore,
		Before:             before,
		After:              after,
		ChangedAttributes:  subject.ChangedAttributes,
		IsStateful:         subject.IsStateful,
		HasLifecycleIssues: assessment.HasLifecycleIssues,
		IsProduction:       subject.IsProduction,
	}
}

// Analyze runs every resource change through the engine and aggregates the
// results. A nil plan or change list is analyzed as empty.
func (e *Engine) Analyze(plan *ir.Plan) *ir.PlanAnalysis {
	var changes []*ir.ResourceChange
	if plan != nil {
		changes = plan.ResourceChanges
	}
	logging.Debug("analyzing plan", "resource_changes", len(changes))

	resources := make([]*ir.AnalyzedResource, 0, len(changes))
	for _, rc := range changes {
		resources = append(resources, e.AnalyzeResource(rc))
	}

	analysis := &ir.PlanAnalysis{
		TotalResources:    len(resources),
		HighRiskResources: []*ir.AnalyzedResource{},
		Warnings:          []string{},
		CriticalIssues:    []string{},
	}

	pricedSeen, pricedNonZero := false, false
	for _, r := range resources {
		switch r.Action {
		case ir.ActionCreate:
			analysis.Creates++
		case ir.ActionUpdate:
			analysis.Updates++
		case ir.ActionDelete:
			analysis.Deletes++
		case ir.ActionReplace:
			analysis.Replaces++
		case ir.ActionNoOp:
			analysis.NoOps++
		case ir.ActionRead:
			analysis.Reads++
		}

		analysis.TotalCostBefore += r.CostBefore
		analysis.TotalCostAfter += r.CostAfter

		if e.rules.IsPriced(r.Type) {
			pricedSeen = true
			if r.CostBefore > 0 || r.CostAfter > 0 {
				pricedNonZero = true
			}
		}
	}
	analysis.CostDelta = analysis.TotalCostAfter - analysis.TotalCostBefore
	analysis.CostPercentChange = PercentChange(analysis.TotalCostBefore, analysis.TotalCostAfter)
	analysis.CostAvailable = pricedSeen && pricedNonZero

	avg := weightedRiskScore(resources)
	analysis.OverallRiskScore = math.Min(math.Max(avg, 0), 100)
	analysis.OverallRiskLevel = overallLevel(maxRiskScore(resources), avg)

	sort.SliceStable(resources, func(i, j int) bool {
		return resources[i].RiskScore > resources[j].RiskScore
	})
	analysis.Resources = resources

	for _, r := range resources {
		switch r.RiskLevel {
		case ir.RiskCritical:
			analysis.HighRiskResources = append(analysis.HighRiskResources, r)
			analysis.CriticalIssues = append(analysis.CriticalIssues, issueLine(r, "High risk operation"))
		case ir.RiskHigh:
			analysis.HighRiskResources = append(analysis.HighRiskResources, r)
			analysis.Warnings = append(analysis.Warnings, issueLine(r, "Elevated risk"))
		}
	}

	logging.Debug("plan analyzed",
		"resources", analysis.TotalResources,
		"overall_risk", analysis.OverallRiskLevel,
		"overall_score", analysis.OverallRiskScore,
		"cost_delta", analysis.CostDelta,
	)
	return analysis
}

// IsProduction reports whether a resource is tagged as production. Tags
// come from the prior snapshot when it has any, else the planned one.
func (rs *Ruleset) IsProduction(before, after map[string]any) bool {
	tags, ok := before["tags"].(map[string]any)
	if !ok {
		tags, ok = after["tags"].(map[string]any)
	}
	if !ok {
		return false
	}
	return rs.IsProductionTags(tags)
}

// weightedRiskScore averages resource scores with critical resources
// weighted 3 and high resources weighted 2.
func weightedRiskScore(resources []*ir.AnalyzedResource) float64 {
	if len(resources) == 0 {
		return 0
	}
	total, weights := 0, 0
	for _, r := range resources {
		w := riskWeight(r.RiskLevel)
		total += r.RiskScore * w
		weights += w
	}
	return float64(total) / float64(weights)
}

func riskWeight(level ir.RiskLevel) int {
	switch level {
	case ir.RiskCritical:
		return 3
	case ir.RiskHigh:
		return 2
	default:
		return 1
	}
}

func maxRiskScore(resources []*ir.AnalyzedResource) int {
	highest := 0
	for _, r := range resources {
		if r.RiskScore > highest {
			highest = r.RiskScore
		}
	}
	return highest
}

func overallLevel(maxScore int, avg float64) ir.RiskLevel {
	switch {
	case maxScore >= 80 || avg >= 70:
		return ir.RiskCritical
	case maxScore >= 60 || avg >= 50:
		return ir.RiskHigh
	case maxScore >= 40 || avg >= 30:
		return ir.RiskMedium
	case maxScore >= 20 || avg >= 15:
		return ir.RiskLow
	default:
		return ir.RiskSafe
	}
}

func issueLine(r *ir.AnalyzedResource, fallback string) string {
	reason := fallback
	if len(r.RiskReasons) > 0 {
		reason = r.RiskReasons[0]
	}
	return fmt.Sprintf("%s (%s) — %s", r.Address, r.Action, reason)
}
