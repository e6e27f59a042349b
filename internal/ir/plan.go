package ir

// Plan is the subset of a `terraform show -json` document that planrisk reads.
type Plan struct {
	FormatVersion    string            `json:"format_version,omitempty"`
	TerraformVersion string            `json:"terraform_version,omitempty"`
	ResourceChanges  []*ResourceChange `json:"resource_changes"`
}

// ResourceChange is one planned mutation of one resource.
type ResourceChange struct {
	Address      string  `json:"address"`
	Type         string  `json:"type"`
	Name         string  `json:"name,omitempty"`
	ProviderName string  `json:"provider_name,omitempty"`
	Change       *Change `json:"change"`
}

// Change holds the action list and attribute snapshots of one resource change.
type Change struct {
	Actions []string       `json:"actions"`
	Before  map[string]any `json:"before"`
	After   map[string]any `json:"after"`

	// Accepted for completeness, never inspected.
	AfterUnknown    map[string]any `json:"after_unknown,omitempty"`
	BeforeSensitive any            `json:"before_sensitive,omitempty"`
	AfterSensitive  any            `json:"after_sensitive,omitempty"`
}

// Actions returns the raw action verbs, tolerating a missing change block.
func (rc *ResourceChange) Actions() []string {
	if rc == nil || rc.Change == nil {
		return nil
	}
	return rc.Change.Actions
}

// Before returns the prior attribute snapshot or nil.
func (rc *ResourceChange) Before() map[string]any {
	if rc == nil || rc.Change == nil {
		return nil
	}
	return rc.Change.Before
}

// After returns the planned attribute snapshot or nil.
func (rc *ResourceChange) After() map[string]any {
	if rc == nil || rc.Change == nil {
		return nil
	}
	return rc.Change.After
}
