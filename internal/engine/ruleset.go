package engine

import (
	"sort"
	"strings"
)

// Ruleset holds the lookup tables the risk rules consult. It is immutable
// after construction and safe to share between goroutines.
type Ruleset struct {
	stateful        map[string]bool
	replacementAttr map[string]map[string]bool
	elevatedMarkers []string
	envTagKeys      []string
	prodValues      map[string]bool
	pricedPrefix    string
}

// DefaultRuleset returns the built-in AWS ruleset.
func DefaultRuleset() *Ruleset {
	return NewRuleset(nil)
}

// NewRuleset returns the built-in ruleset with extra stateful resource types.
func NewRuleset(extraStateful []string) *Ruleset {
	rs := &Ruleset{
		stateful: toSet(append([]string{
			"aws_s3_bucket",
			"aws_db_instance",
			"aws_rds_cluster",
			"aws_efs_file_system",
			"aws_dynamodb_table",
			"aws_elasticache_cluster",
			"aws_elasticsearch_domain",
			"aws_opensearch_domain",
			"aws_kinesis_stream",
			"aws_sqs_queue",
			"aws_sns_topic",
			"aws_ebs_volume",
			"aws_redshift_cluster",
		}, extraStateful...)),
		replacementAttr: map[string]map[string]bool{
			"aws_db_instance":         toSet([]string{"instance_class", "engine", "engine_version", "identifier"}),
			"aws_instance":            toSet([]string{"instance_type", "ami", "availability_zone"}),
			"aws_efs_file_system":     toSet([]string{"creation_token", "encrypted"}),
			"aws_s3_bucket":           toSet([]string{"bucket"}),
			"aws_rds_cluster":         toSet([]string{"cluster_identifier", "engine", "engine_mode"}),
			"aws_elasticache_cluster": toSet([]string{"cluster_id", "node_type"}),
		},
		elevatedMarkers: []string{"FullAccess", "AdministratorAccess", "PowerUserAccess", "*"},
		envTagKeys:      []string{"env", "environment", "Environment", "ENV"},
		prodValues:      toSet([]string{"production", "prod"}),
		pricedPrefix:    "aws_",
	}
	return rs
}

// IsStateful reports whether the resource type holds persistent data.
func (rs *Ruleset) IsStateful(resourceType string) bool {
	return rs.stateful[resourceType]
}

// StatefulTypes returns the stateful resource types in sorted order.
func (rs *Ruleset) StatefulTypes() []string {
	types := make([]string, 0, len(rs.stateful))
	for t := range rs.stateful {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// ForcesReplacement reports whether changing attribute forces replacement of resourceType.
func (rs *Ruleset) ForcesReplacement(resourceType, attribute string) bool {
	return rs.replacementAttr[resourceType][attribute]
}

// IsElevatedPolicy reports whether a policy ARN grants broad permissions.
func (rs *Ruleset) IsElevatedPolicy(arn string) bool {
	for _, marker := range rs.elevatedMarkers {
		if strings.Contains(arn, marker) {
			return true
		}
	}
	return false
}

// IsProductionTags reports whether a tag map marks a production resource.
// The first non-empty environment tag, in key priority order, decides.
func (rs *Ruleset) IsProductionTags(tags map[string]any) bool {
	for _, key := range rs.envTagKeys {
		if v, ok := tags[key].(string); ok && v != "" {
			return rs.prodValues[strings.ToLower(v)]
		}
	}
	return false
}

// IsPriced reports whether a resource type belongs to the priced provider.
func (rs *Ruleset) IsPriced(resourceType string) bool {
	return strings.HasPrefix(resourceType, rs.pricedPrefix)
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
