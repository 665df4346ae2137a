package refactor

import (
	"sort"
	"strings"
)

// splice is a single in-line replacement at a column.
type splice struct {
	col    int
	length int
	text   string
}

// rewriter accumulates splices against one file's source and flushes them as
// line-level edits. Splices on the same line are applied right to left so
// earlier column offsets stay valid.
type rewriter struct {
	path  string
	lines []string
	repls map[int][]splice // line (1-based) -> splices
	whole map[int]string   // line (1-based) -> full replacement text
}

func newRewriter(path string, src []byte) *rewriter {
	return &rewriter{
		path:  path,
		lines: strings.Split(string(src), "\n"),
		repls: make(map[int][]splice),
		whole: make(map[int]string),
	}
}

func (r *rewriter) line(n int) string {
	if n < 1 || n > len(r.lines) {
		return ""
	}
	return r.lines[n-1]
}

func (r *rewriter) add(line, col, length int, text string) {
	r.repls[line] = append(r.repls[line], splice{col: col, length: length, text: text})
}

// replaceLine substitutes the entire line, taking precedence over any splices
// queued for it. The replacement may span multiple output lines.
func (r *rewriter) replaceLine(line int, text string) {
	r.whole[line] = text
}

func (r *rewriter) appendTo(cs ChangeSet) {
	lineNos := make([]int, 0, len(r.repls)+len(r.whole))
	for n := range r.repls {
		if _, replaced := r.whole[n]; !replaced {
			lineNos = append(lineNos, n)
		}
	}
	for n := range r.whole {
		lineNos = append(lineNos, n)
	}
	sort.Ints(lineNos)

	for _, n := range lineNos {
		old := r.line(n)
		if text, ok := r.whole[n]; ok {
			cs.add(TextEdit{File: r.path, Line: n, OldText: old, NewText: text})
			continue
		}
		cs.add(TextEdit{File: r.path, Line: n, OldText: old, NewText: r.apply(old, r.repls[n])})
	}
}

func (r *rewriter) apply(line string, splices []splice) string {
	sort.Slice(splices, func(i, j int) bool { return splices[i].col > splices[j].col })
	out := line
	prev := -1
	for _, s := range splices {
		if s.col == prev {
			continue // same token queued twice
		}
		prev = s.col
		if s.col < 0 || s.col+s.length > len(out) {
			continue
		}
		out = out[:s.col] + s.text + out[s.col+s.length:]
	}
	return out
}
