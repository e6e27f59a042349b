// Package report renders plan analyses for terminals, files and S3.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/picklr-io/planrisk/internal/ir"
)

const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorDim    = "\033[2m"
	colorBoldRd = "\033[1;31m"
)

// TextRenderer writes a human-readable analysis report.
type TextRenderer struct {
	w       io.Writer
	noColor bool
}

// NewTextRenderer returns a renderer writing to w. noColor disables ANSI codes.
func NewTextRenderer(w io.Writer, noColor bool) *TextRenderer {
	return &TextRenderer{w: w, noColor: noColor}
}

func (r *TextRenderer) colorize(code string) string {
	if r.noColor {
		return ""
	}
	return code
}

func (r *TextRenderer) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

// Render prints the summary, cost impact, issues and the per-resource list.
func (r *TextRenderer) Render(a *ir.PlanAnalysis) {
	reset := r.colorize(colorReset)

	r.printf("\nPlan Summary:\n")
	r.printf("  Resources: %d\n", a.TotalResources)
	r.printf("  Create:    %d\n", a.Creates)
	r.printf("  Update:    %d\n", a.Updates)
	r.printf("  Delete:    %d\n", a.Deletes)
	r.printf("  Replace:   %d\n", a.Replaces)
	r.printf("  Read:      %d\n", a.Reads)
	r.printf("  NoOp:      %d\n", a.NoOps)

	level := a.OverallRiskLevel
	r.printf("\nOverall risk: %s%s%s (score %.1f)\n",
		r.colorize(levelColor(level)), strings.ToUpper(string(level)), reset, a.OverallRiskScore)

	r.printf("\nMonthly cost impact:\n")
	if a.CostAvailable {
		r.printf("  Before: %s\n", FormatTotal(a.TotalCostBefore))
		r.printf("  After:  %s\n", FormatTotal(a.TotalCostAfter))
		r.printf("  Delta:  %s%s (%s)%s\n",
			r.colorize(deltaColor(a.CostDelta)), signed(a.CostDelta, FormatTotal), percent(a.CostPercentChange), reset)
	} else {
		r.printf("  Not available (only AWS resources in the price table are estimated)\n")
	}

	if len(a.CriticalIssues) > 0 {
		r.printf("\n%sCritical issues:%s\n", r.colorize(colorBoldRd), reset)
		for _, issue := range a.CriticalIssues {
			r.printf("  ✗ %s\n", issue)
		}
	}
	if len(a.Warnings) > 0 {
		r.printf("\n%sWarnings:%s\n", r.colorize(colorYellow), reset)
		for _, warning := range a.Warnings {
			r.printf("  ! %s\n", warning)
		}
	}

	if len(a.Resources) == 0 {
		r.printf("\nNo changes. Infrastructure is up-to-date.\n")
		return
	}

	r.printf("\nResources:\n")
	for _, res := range a.Resources {
		r.renderResource(res)
	}
}

func (r *TextRenderer) renderResource(res *ir.AnalyzedResource) {
	reset := r.colorize(colorReset)
	color := r.colorize(actionColor(res.Action))

	r.printf("\n%s  %s %s%s %s[%s %d]%s\n",
		color, ActionSymbol(res.Action), res.Address, reset,
		r.colorize(levelColor(res.RiskLevel)), strings.ToUpper(string(res.RiskLevel)), res.RiskScore, reset)

	var flags []string
	if res.IsStateful {
		flags = append(flags, "stateful")
	}
	if res.IsProduction {
		flags = append(flags, "production")
	}
	if res.HasLifecycleIssues {
		flags = append(flags, "lifecycle")
	}
	if len(flags) > 0 {
		r.printf("      %s%s%s\n", r.colorize(colorDim), strings.Join(flags, ", "), reset)
	}

	for _, reason := range res.RiskReasons {
		r.printf("      • %s\n", reason)
	}

	if len(res.ChangedAttributes) > 0 && (res.Action == ir.ActionUpdate || res.Action == ir.ActionReplace) {
		r.printf("      changed: %s\n", strings.Join(res.ChangedAttributes, ", "))
	}

	if res.CostBefore != 0 || res.CostAfter != 0 {
		r.printf("      cost: %s -> %s (%s)\n",
			FormatResourceCost(res.CostBefore), FormatResourceCost(res.CostAfter), signed(res.CostDelta, FormatResourceCost))
	}
}

// ActionSymbol returns the diff marker for an action.
func ActionSymbol(action ir.ActionType) string {
	switch action {
	case ir.ActionCreate:
		return "+"
	case ir.ActionDelete:
		return "-"
	case ir.ActionReplace:
		return "-/+"
	case ir.ActionRead:
		return "<="
	case ir.ActionNoOp:
		return " "
	default:
		return "~"
	}
}

func actionColor(action ir.ActionType) string {
	switch action {
	case ir.ActionCreate:
		return colorGreen
	case ir.ActionDelete:
		return colorRed
	case ir.ActionUpdate, ir.ActionReplace:
		return colorYellow
	case ir.ActionRead:
		return colorBlue
	default:
		return colorReset
	}
}

func levelColor(level ir.RiskLevel) string {
	switch level {
	case ir.RiskCritical:
		return colorBoldRd
	case ir.RiskHigh:
		return colorRed
	case ir.RiskMedium:
		return colorYellow
	case ir.RiskLow:
		return colorCyan
	default:
		return colorGreen
	}
}

func deltaColor(delta float64) string {
	switch {
	case delta > 0:
		return colorRed
	case delta < 0:
		return colorGreen
	default:
		return colorBold
	}
}

// FormatTotal formats a plan-wide monthly cost, abbreviating thousands.
func FormatTotal(cost float64) string {
	if cost >= 1000 {
		return fmt.Sprintf("$%.1fk", cost/1000)
	}
	return fmt.Sprintf("$%.2f", cost)
}

// FormatResourceCost formats one resource's monthly cost. Sub-dollar costs
// keep three decimals.
func FormatResourceCost(cost float64) string {
	switch {
	case cost == 0:
		return "$0"
	case cost < 1:
		return fmt.Sprintf("$%.3f", cost)
	default:
		return fmt.Sprintf("$%.2f", cost)
	}
}

func signed(v float64, format func(float64) string) string {
	switch {
	case v > 0:
		return "+" + format(v)
	case v < 0:
		return "-" + format(-v)
	default:
		return format(0)
	}
}

func percent(p float64) string {
	if p > 0 {
		return fmt.Sprintf("+%.1f%%", p)
	}
	return fmt.Sprintf("%.1f%%", p)
}
