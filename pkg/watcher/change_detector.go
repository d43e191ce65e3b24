package watcher

import (
	"path/filepath"
	"sort"
	"strings"
)

// ChangeSummary lists which stored workflows a debounced batch touched,
// by file name without extension.
type ChangeSummary struct {
	Written []string
	Removed []string
}

// Empty reports whether nothing changed
func (s ChangeSummary) Empty() bool {
	return len(s.Written) == 0 && len(s.Removed) == 0
}

// All returns written and removed names together, sorted.
func (s ChangeSummary) All() []string {
	all := append(append([]string{}, s.Written...), s.Removed...)
	sort.Strings(all)
	return all
}

// Summarize folds change events into a per-workflow summary. A workflow that
// was removed and written again in the same window counts as written.
func Summarize(events ...ChangeEvent) ChangeSummary {
	written := map[string]bool{}
	removed := map[string]bool{}
	for _, ev := range events {
		for _, p := range ev.Paths {
			base := filepath.Base(p)
			name := strings.TrimSuffix(base, filepath.Ext(base))
			switch ev.Type {
			case ChangeTypeWritten:
				written[name] = true
				delete(removed, name)
			case ChangeTypeRemoved:
				if !written[name] {
					removed[name] = true
				}
			}
		}
	}

	var s ChangeSummary
	for name := range written {
		s.Written = append(s.Written, name)
	}
	for name := range removed {
		s.Removed = append(s.Removed, name)
	}
	sort.Strings(s.Written)
	sort.Strings(s.Removed)
	return s
}
