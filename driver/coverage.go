package driver

import (
	"sort"

	json "github.com/goccy/go-json"

	"github.com/xhd2015/covprobe/probe"
)

// reportVersion is the schema version stamped into every persisted
// document's meta.version field (spec.md §6).
const reportVersion = 1

// FileReport is one filename's entry in get_coverage()'s files map.
type FileReport struct {
	ExecutedLines    []int                   `json:"executed_lines"`
	ExecutedBranches [][2]int                `json:"executed_branches"`
	MissingLines     []int                   `json:"missing_lines,omitempty"`
	Stats            map[string]probe.Stats  `json:"stats,omitempty"`
}

// Meta carries the run-independent facts every report repeats (spec.md §6).
type Meta struct {
	Version int    `json:"version"`
	Branch  bool   `json:"branch"`
	Platform string `json:"platform"`
}

// Report is the exact structure spec.md 4.D's get_coverage() and §6's
// "persisted state layout" describe: one JSON document, keys sorted
// lexicographically, line numbers ascending.
type Report struct {
	Files map[string]*FileReport `json:"files"`
	Meta  Meta                   `json:"meta"`
}

// MarshalJSON sorts every slice and produces deterministic key order
// (spec.md §6: "Keys sort lexicographically; line numbers serialize as
// ascending arrays"), then delegates to goccy/go-json, a faster drop-in
// for encoding/json.
func (r *Report) MarshalJSON() ([]byte, error) {
	type sortedFile struct {
		Name string
		FileReport
	}
	names := make([]string, 0, len(r.Files))
	for name := range r.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	out := struct {
		Files map[string]*FileReport `json:"files"`
		Meta  Meta                   `json:"meta"`
	}{Files: map[string]*FileReport{}, Meta: r.Meta}

	for _, name := range names {
		fr := r.Files[name]
		sorted := &FileReport{
			ExecutedLines:    append([]int(nil), fr.ExecutedLines...),
			ExecutedBranches: append([][2]int(nil), fr.ExecutedBranches...),
			MissingLines:     append([]int(nil), fr.MissingLines...),
			Stats:            fr.Stats,
		}
		sort.Ints(sorted.ExecutedLines)
		sort.Slice(sorted.ExecutedBranches, func(i, j int) bool {
			a, b := sorted.ExecutedBranches[i], sorted.ExecutedBranches[j]
			if a[0] != b[0] {
				return a[0] < b[0]
			}
			return a[1] < b[1]
		})
		sort.Ints(sorted.MissingLines)
		out.Files[name] = sorted
	}
	return json.Marshal(out)
}

// Persist serializes r with MarshalJSON's deterministic ordering.
func (r *Report) Persist() ([]byte, error) {
	return r.MarshalJSON()
}
