package batch

import (
	"sort"

	"github.com/llehouerou/sleeve/internal/media"
)

// ValueCount is one value of a field and the number of files carrying
// it. An empty Value groups the files where the field is unset.
type ValueCount struct {
	Value string
	Count int
}

// FieldReport is the value distribution of one mergeable field across a
// batch, most frequent first.
type FieldReport struct {
	Field  Field
	Values []ValueCount
}

// Uniform reports whether every counted file shares one non-empty
// value — the case where a template edit would change nothing.
func (r FieldReport) Uniform() bool {
	return len(r.Values) == 1 && r.Values[0].Value != ""
}

// Analyze computes the per-field value distribution across the loaded
// items of a batch, the basis for deciding which fields are worth a
// shared template edit. Unloaded items are skipped; ties sort by value
// so the report is deterministic.
func Analyze(items []media.Item) []FieldReport {
	reports := make([]FieldReport, 0, len(MergeFields()))
	for _, f := range MergeFields() {
		counts := make(map[string]int)
		for i := range items {
			if !items[i].Loaded() {
				continue
			}
			counts[f.Value(items[i].Tag)]++
		}
		values := make([]ValueCount, 0, len(counts))
		for v, n := range counts {
			values = append(values, ValueCount{Value: v, Count: n})
		}
		sort.Slice(values, func(i, j int) bool {
			if values[i].Count != values[j].Count {
				return values[i].Count > values[j].Count
			}
			return values[i].Value < values[j].Value
		})
		reports = append(reports, FieldReport{Field: f, Values: values})
	}
	return reports
}
