package ir

// PlanAnalysis is the plan-wide result of one analysis run.
type PlanAnalysis struct {
	TotalResources int `json:"totalResources"`
	Creates        int `json:"creates"`
	Updates        int `json:"updates"`
	Deletes        int `json:"deletes"`
	Replaces       int `json:"replaces"`
	NoOps          int `json:"noops"`
	Reads          int `json:"reads"`

	OverallRiskScore float64   `json:"overallRiskScore"`
	OverallRiskLevel RiskLevel `json:"overallRiskLevel"`

	TotalCostBefore   float64 `json:"totalCostBefore"`
	TotalCostAfter    float64 `json:"totalCostAfter"`
	CostDelta         float64 `json:"costDelta"`
	CostPercentChange float64 `json:"costPercentChange"`
	CostAvailable     bool    `json:"costAvailable"`

	Resources         []*AnalyzedResource `json:"resources"`
	HighRiskResources []*AnalyzedResource `json:"highRiskResources"`
	Warnings          []string            `json:"warnings"`
	CriticalIssues    []string            `json:"criticalIssues"`
}
