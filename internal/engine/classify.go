package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/picklr-io/planrisk/internal/ir"
)

// ClassifyAction collapses a change's raw action verbs into one category.
// Only the set of verbs matters, not their order.
func ClassifyAction(actions []string) ir.ActionType {
	has := make(map[string]bool, len(actions))
	for _, a := range actions {
		has[a] = true
	}

	switch {
	case has["delete"] && has["create"]:
		return ir.ActionReplace
	case has["create"]:
		return ir.ActionCreate
	case has["delete"]:
		return ir.ActionDelete
	case has["update"]:
		return ir.ActionUpdate
	case has["read"]:
		return ir.ActionRead
	default:
		return ir.ActionNoOp
	}
}

// DiffAttributes returns the sorted names of attributes whose values differ
// between two snapshots. A key missing on one side differs from any value on
// the other, including null.
func DiffAttributes(before, after map[string]any) []string {
	changed := []string{}
	if before == nil && after == nil {
		return changed
	}

	allKeys := make(map[string]bool)
	for k := range before {
		allKeys[k] = true
	}
	for k := range after {
		allKeys[k] = true
	}

	for k := range allKeys {
		beforeVal, inBefore := before[k]
		afterVal, inAfter := after[k]

		if inBefore != inAfter || !sameValue(beforeVal, afterVal) {
			changed = append(changed, k)
		}
	}

	sort.Strings(changed)
	return changed
}

// sameValue compares two decoded JSON values by their canonical encoding;
// encoding/json sorts map keys so nested objects compare structurally.
func sameValue(a, b any) bool {
	aj, errA := json.Marshal(normalizeValue(a))
	bj, errB := json.Marshal(normalizeValue(b))
	if errA != nil || errB != nil {
		return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
	}
	return bytes.Equal(aj, bj)
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[any]any:
		newMap := make(map[string]any)
		for k, v := range val {
			newMap[fmt.Sprintf("%v", k)] = normalizeValue(v)
		}
		return newMap
	case map[string]any:
		newMap := make(map[string]any)
		for k, v := range val {
			newMap[k] = normalizeValue(v)
		}
		return newMap
	case []any:
		newSlice := make([]any, len(val))
		for i, v := range val {
			newSlice[i] = normalizeValue(v)
		}
		return newSlice
	default:
		return val
	}
}
