// Package pricing estimates advisory monthly costs for planned resources from
// a fixed, hand-maintained price table. No live pricing API is consulted.
package pricing

import (
	"math"
	"sort"

	"github.com/picklr-io/planrisk/internal/attr"
)

const (
	// EBSPerGB is the gp3 storage rate applied to aws_instance root volumes.
	EBSPerGB = 0.08
	// RDSStoragePerGB is the storage rate applied to aws_db_instance allocated storage.
	RDSStoragePerGB = 0.115
)

// Entry is one row of the price table. An entry with an empty Attribute is a
// flat base charge; otherwise Price applies when the resource's Attribute
// stringifies to Value.
type Entry struct {
	Attribute string  `json:"attribute,omitempty" yaml:"attribute" pkl:"attribute"`
	Value     string  `json:"value,omitempty" yaml:"value" pkl:"value"`
	Price     float64 `json:"price" yaml:"price" pkl:"price" validate:"gte=0"`
	Unit      string  `json:"unit" yaml:"unit" pkl:"unit"`
}

// IsBase reports whether the entry is a flat charge.
func (e Entry) IsBase() bool {
	return e.Attribute == ""
}

// Table is an immutable price table keyed by resource type. It is safe for
// concurrent use once built.
type Table struct {
	entries map[string][]Entry
}

// NewTable builds a table from the given entries. The input is copied.
func NewTable(entries map[string][]Entry) *Table {
	t := &Table{entries: make(map[string][]Entry, len(entries))}
	for typ, list := range entries {
		t.entries[typ] = append([]Entry(nil), list...)
	}
	return t
}

// With returns a new table with extra entries appended per resource type.
func (t *Table) With(extra map[string][]Entry) *Table {
	merged := make(map[string][]Entry, len(t.entries)+len(extra))
	for typ, list := range t.entries {
		merged[typ] = list
	}
	for typ, list := range extra {
		merged[typ] = append(append([]Entry(nil), merged[typ]...), list...)
	}
	return NewTable(merged)
}

// Types returns the priced resource types in sorted order.
func (t *Table) Types() []string {
	types := make([]string, 0, len(t.entries))
	for typ := range t.entries {
		types = append(types, typ)
	}
	sort.Strings(types)
	return types
}

// Entries returns a copy of the entries for a resource type.
func (t *Table) Entries(resourceType string) []Entry {
	return append([]Entry(nil), t.entries[resourceType]...)
}

// Estimate returns the monthly cost of a resource given one attribute
// snapshot. A nil snapshot or an unpriced type costs 0.
func (t *Table) Estimate(resourceType string, attrs map[string]any) float64 {
	if attrs == nil {
		return 0
	}
	prices, ok := t.entries[resourceType]
	if !ok {
		return 0
	}

	total := 0.0
	for _, p := range prices {
		if p.IsBase() {
			total += p.Price
			continue
		}
		if attr.String(attrs[p.Attribute]) == p.Value {
			total += p.Price
		}
	}

	switch resourceType {
	case "aws_instance":
		if dev := attr.Object(attrs["root_block_device"]); dev != nil {
			total += nonNegative(dev["volume_size"]) * EBSPerGB
		}
	case "aws_db_instance":
		if attr.Truthy(attrs["allocated_storage"]) {
			total += nonNegative(attrs["allocated_storage"]) * RDSStoragePerGB
		}
	}

	return total
}

// nonNegative reads a size attribute, treating negative values as 0.
func nonNegative(v any) float64 {
	return math.Max(0, attr.Number(v))
}
