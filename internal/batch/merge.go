package batch

import "github.com/llehouerou/sleeve/internal/tags"

// MergeForSave layers a batch template's dirty fields over a file's
// current tags and returns the effective tag value to persist. It is a
// pure function: neither input is mutated.
//
// Per-file-unique fields (title, track and disc numbers and totals) and
// the identifier tags always come from current. Pictures pass through
// from current; lyrics pass through too — the commit path substitutes
// the resolved lyrics and pictures after merging. A template field is
// taken only when it was explicitly marked dirty and carries a
// non-empty value, so an untouched or blanked template field never
// clobbers a file's own value.
//
// A nil current (tag read-through failed upstream) merges as an empty
// tag rather than failing; a nil template or empty dirty set makes the
// merge the identity over current.
func MergeForSave(current, template *tags.Tag, dirty FieldSet) *tags.Tag {
	merged := current.Clone()
	if merged == nil {
		merged = &tags.Tag{}
	}
	if template == nil || dirty.Len() == 0 {
		return merged
	}
	for _, f := range MergeFields() {
		if !dirty.Has(f) {
			continue
		}
		if v := f.Value(template); v != "" {
			f.apply(merged, v)
		}
	}
	return merged
}
