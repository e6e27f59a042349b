package ir

// ActionType is the single categorical action derived from a change's raw verbs.
type ActionType string

const (
	ActionCreate  ActionType = "create"
	ActionUpdate  ActionType = "update"
	ActionDelete  ActionType = "delete"
	ActionReplace ActionType = "replace"
	ActionRead    ActionType = "read"
	ActionNoOp    ActionType = "no-op"
)

// IsDestructive reports whether the action destroys the existing resource.
func (a ActionType) IsDestructive() bool {
	return a == ActionDelete || a == ActionReplace
}

// AnalyzedResource is the risk and cost assessment of a single resource change.
type AnalyzedResource struct {
	Address            string         `json:"address"`
	Type               string         `json:"type"`
	Action             ActionType     `json:"action"`
	Actions            []string       `json:"actions"`
	RiskLevel          RiskLevel      `json:"riskLevel"`
	RiskScore          int            `json:"riskScore"`
	RiskReasons        []string       `json:"riskReasons"`
	CostBefore         float64        `json:"costBefore"`
	CostAfter          float64        `json:"costAfter"`
	CostDelta          float64        `json:"costDelta"`
	Before             map[string]any `json:"before"`
	After              map[string]any `json:"after"`
	ChangedAttributes  []string       `json:"changedAttributes"`
	IsStateful         bool           `json:"isStateful"`
	HasLifecycleIssues bool           `json:"hasLifecycleIssues"`
	IsProduction       bool           `json:"isProduction"`
}
