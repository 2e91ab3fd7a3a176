package driver

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const diffContext = 3

type diffLine struct {
	op       diffmatchpatch.Operation
	text     string
	old, new int // 1-based; 0 when the line is absent on that side
}

// UnifiedDiff renders the line diff between before and after in unified
// format. It returns "" when the contents are equal.
func UnifiedDiff(path string, before, after []byte) string {
	if string(before) == string(after) {
		return ""
	}
	lines := diffLines(string(before), string(after))

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", path, path)
	for _, h := range hunks(lines) {
		writeHunk(&b, lines[h[0]:h[1]])
	}
	return b.String()
}

func diffLines(before, after string) []diffLine {
	dmp := diffmatchpatch.New()
	src, dst, lineArray := dmp.DiffLinesToRunes(before, after)
	diffs := dmp.DiffMainRunes(src, dst, false)
	diffs = dmp.DiffCharsToLines(dmp.DiffCleanupSemanticLossless(diffs), lineArray)

	var out []diffLine
	oldNo, newNo := 1, 1
	for _, d := range diffs {
		for _, text := range strings.SplitAfter(d.Text, "\n") {
			if text == "" {
				continue
			}
			line := diffLine{op: d.Type, text: text}
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				line.old, line.new = oldNo, newNo
				oldNo++
				newNo++
			case diffmatchpatch.DiffDelete:
				line.old = oldNo
				oldNo++
			case diffmatchpatch.DiffInsert:
				line.new = newNo
				newNo++
			}
			out = append(out, line)
		}
	}
	return out
}

// hunks returns [start, end) ranges of lines grouped with diffContext
// lines of context; changes closer than twice the context share a hunk.
func hunks(lines []diffLine) [][2]int {
	var out [][2]int
	for i := 0; i < len(lines); i++ {
		if lines[i].op == diffmatchpatch.DiffEqual {
			continue
		}
		start := max(0, i-diffContext)
		end := i
		for end < len(lines) {
			if lines[end].op != diffmatchpatch.DiffEqual {
				end++
				continue
			}
			// длина следующего блока неизменённых строк
			run := end
			for run < len(lines) && lines[run].op == diffmatchpatch.DiffEqual {
				run++
			}
			if run == len(lines) || run-end > 2*diffContext {
				end = min(end+diffContext, len(lines))
				break
			}
			end = run
		}
		if n := len(out); n > 0 && out[n-1][1] >= start {
			out[n-1][1] = end
		} else {
			out = append(out, [2]int{start, end})
		}
		i = end - 1
	}
	return out
}

func writeHunk(b *strings.Builder, lines []diffLine) {
	oldStart, newStart := 0, 0
	oldCount, newCount := 0, 0
	for _, l := range lines {
		if l.old > 0 {
			if oldStart == 0 {
				oldStart = l.old
			}
			oldCount++
		}
		if l.new > 0 {
			if newStart == 0 {
				newStart = l.new
			}
			newCount++
		}
	}
	fmt.Fprintf(b, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)
	for _, l := range lines {
		prefix := " "
		switch l.op {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		b.WriteString(prefix)
		b.WriteString(l.text)
		if !strings.HasSuffix(l.text, "\n") {
			b.WriteString("\n\\ No newline at end of file\n")
		}
	}
}
