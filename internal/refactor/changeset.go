package refactor

import "sort"

// TextEdit is one line-level replacement. OldText always carries the exact
// current line so a viewer or applier can verify before acting.
type TextEdit struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	OldText string `json:"old_text"`
	NewText string `json:"new_text"`
}

// ChangeSet maps each affected file to its edits, sorted by line so they
// render and apply deterministically top to bottom.
type ChangeSet map[string][]TextEdit

func (cs ChangeSet) add(edit TextEdit) {
	cs[edit.File] = append(cs[edit.File], edit)
}

// Files returns the affected file paths in sorted order.
func (cs ChangeSet) Files() []string {
	files := make([]string, 0, len(cs))
	for f := range cs {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

func (cs ChangeSet) EditCount() int {
	n := 0
	for _, edits := range cs {
		n += len(edits)
	}
	return n
}

func (cs ChangeSet) sortEdits() {
	for _, edits := range cs {
		sort.Slice(edits, func(i, j int) bool { return edits[i].Line < edits[j].Line })
	}
}
