package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/picklr-io/planrisk/internal/attr"
	"github.com/picklr-io/planrisk/internal/ir"
)

// Subject is a classified resource change as seen by the risk rules.
type Subject struct {
	Type              string
	Action            ir.ActionType
	Before            map[string]any
	After             map[string]any
	IsStateful        bool
	IsProduction      bool
	ChangedAttributes []string
	CostBefore        float64
	CostAfter         float64
}

// Assessment is the outcome of running every rule over a Subject.
type Assessment struct {
	Score              int
	Level              ir.RiskLevel
	Reasons            []string
	HasLifecycleIssues bool
}

func (a *Assessment) add(points int, reason string) {
	a.Score += points
	if reason != "" {
		a.Reasons = append(a.Reasons, reason)
	}
}

// rule inspects a subject and folds its contribution into the assessment.
// Rules only ever add score and append reasons.
type rule func(rs *Ruleset, s *Subject, a *Assessment)

// rules run in this order; reason order in the output follows it.
var rules = []rule{
	actionBaseRule,
	statefulDestructionRule,
	productionImpactRule,
	replacementAttributesRule,
	bucketDeletionRule,
	iamEscalationRule,
	securityGroupWideningRule,
	costSpikeRule,
	lifecycleAdvisoryRule,
}

// Score evaluates the ordered rules against s.
func (rs *Ruleset) Score(s Subject) Assessment {
	a := Assessment{Reasons: []string{}}
	for _, r := range rules {
		r(rs, &s, &a)
	}
	a.Level = ir.LevelForScore(a.Score)
	return a
}

func actionBaseRule(_ *Ruleset, s *Subject, a *Assessment) {
	switch s.Action {
	case ir.ActionCreate:
		a.add(10, "")
	case ir.ActionUpdate:
		a.add(20, "")
	case ir.ActionDelete:
		a.add(40, "Resource deletion")
	case ir.ActionReplace:
		a.add(50, "Resource replacement (destroy then create)")
	}
}

func statefulDestructionRule(_ *Ruleset, s *Subject, a *Assessment) {
	if s.IsStateful && s.Action.IsDestructive() {
		a.add(30, fmt.Sprintf("Stateful resource %s - potential data loss", s.Action))
	}
}

func productionImpactRule(_ *Ruleset, s *Subject, a *Assessment) {
	if s.IsProduction && s.Action.IsDestructive() {
		a.add(25, "Production resource modification")
	}
}

func replacementAttributesRule(rs *Ruleset, s *Subject, a *Assessment) {
	if s.Action != ir.ActionReplace {
		return
	}
	var forcing []string
	for _, name := range s.ChangedAttributes {
		if rs.ForcesReplacement(s.Type, name) {
			forcing = append(forcing, name)
		}
	}
	if len(forcing) > 0 {
		a.add(0, "Attribute changes forcing replacement: "+strings.Join(forcing, ", "))
	}
}

func bucketDeletionRule(_ *Ruleset, s *Subject, a *Assessment) {
	if s.Type != "aws_s3_bucket" || s.Action != ir.ActionDelete {
		return
	}
	if forceDestroy, ok := attr.Get(s.Before, "force_destroy").(bool); ok && !forceDestroy {
		a.add(15, "S3 bucket deletion without force_destroy=true")
	}
	if versioning := attr.Object(attr.Get(s.Before, "versioning")); attr.Truthy(versioning["enabled"]) {
		a.add(10, "Versioned bucket deletion may leave orphaned versions")
	}
}

func iamEscalationRule(rs *Ruleset, s *Subject, a *Assessment) {
	if s.Type != "aws_iam_role" && s.Type != "aws_iam_policy" {
		return
	}
	if s.Before == nil || s.After == nil {
		return
	}

	existing := make(map[string]bool)
	for _, arn := range attr.Strings(s.Before["managed_policy_arns"]) {
		existing[arn] = true
	}
	for _, arn := range attr.Strings(s.After["managed_policy_arns"]) {
		if !existing[arn] && rs.IsElevatedPolicy(arn) {
			a.add(35, "IAM policy change widens permissions")
			return
		}
	}
}

func securityGroupWideningRule(_ *Ruleset, s *Subject, a *Assessment) {
	if s.Type != "aws_security_group" || s.After == nil {
		return
	}
	for _, ingress := range attr.Objects(s.After["ingress"]) {
		if !containsString(attr.Strings(ingress["cidr_blocks"]), "0.0.0.0/0") {
			continue
		}
		port := ingress["from_port"]
		if attr.IsNumber(port, 22) || attr.IsNumber(port, 3389) {
			a.add(40, "Security group opens sensitive ports to public internet")
			return
		}
	}
}

func costSpikeRule(_ *Ruleset, s *Subject, a *Assessment) {
	pct := PercentChange(s.CostBefore, s.CostAfter)
	if pct > 50 {
		a.add(15, fmt.Sprintf("Cost increase of %s%%", strconv.FormatFloat(math.Round(pct), 'f', 0, 64)))
	}
}

func lifecycleAdvisoryRule(_ *Ruleset, s *Subject, a *Assessment) {
	if s.Action == ir.ActionReplace && s.IsStateful {
		a.HasLifecycleIssues = true
		a.add(0, "Replace operation on stateful resource - consider create_before_destroy lifecycle")
	}
}

// PercentChange is the relative cost change in percent. Growth from zero
// counts as 100%.
func PercentChange(before, after float64) float64 {
	switch {
	case before > 0:
		return (after - before) / before * 100
	case after > 0:
		return 100
	default:
		return 0
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
