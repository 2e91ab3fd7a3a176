package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"

	"esfix/internal/diag"
	"esfix/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info *color.Color
	path, gutter    *color.Color
	caret, note     *color.Color
	fix, del, ins   *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgBlue, color.Bold),
		path:   mk(color.Bold),
		gutter: mk(color.FgCyan),
		caret:  mk(color.FgMagenta, color.Bold),
		note:   mk(color.FgCyan, color.Bold),
		fix:    mk(color.FgGreen),
		del:    mk(color.FgRed),
		ins:    mk(color.FgGreen),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := &prettyPrinter{w: w, fs: fs, opts: opts, pal: newPalette(opts.Color)}
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		p.diagnostic(d)
	}
}

type prettyPrinter struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
	pal  palette
}

func (p *prettyPrinter) location(span source.Span) (string, bool) {
	if span.IsNowhere() || p.fs == nil || !p.fs.Has(span.File) {
		return "", false
	}
	f := p.fs.Get(span.File)
	start, _ := p.fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", formatPath(p.fs, f, p.opts.PathMode), start.Line, start.Col), true
}

func (p *prettyPrinter) diagnostic(d *diag.Diagnostic) {
	sev := p.pal.severity(d.Severity)
	if loc, ok := p.location(d.Primary); ok {
		fmt.Fprintf(p.w, "%s: ", p.pal.path.Sprint(loc))
	}
	fmt.Fprintf(p.w, "%s %s: %s\n", sev.Sprint(d.Severity.String()), sev.Sprint(d.Code.ID()), d.Message)
	p.snippet(d.Primary, sev)

	if p.opts.ShowNotes {
		for _, note := range d.Notes {
			if loc, ok := p.location(note.Span); ok {
				fmt.Fprintf(p.w, "  %s %s: %s\n", p.pal.note.Sprint("note:"), loc, note.Msg)
			} else {
				fmt.Fprintf(p.w, "  %s %s\n", p.pal.note.Sprint("note:"), note.Msg)
			}
		}
	}
	if p.opts.ShowFixes {
		p.fixes(d)
	}
}

// snippet печатает строки span с контекстом и подчёркивает span.
func (p *prettyPrinter) snippet(span source.Span, sev *color.Color) {
	if span.IsNowhere() || p.fs == nil || !p.fs.Has(span.File) {
		return
	}
	f := p.fs.Get(span.File)
	start, end := p.fs.Resolve(span)
	ctx := uint32(max(p.opts.Context, 0))

	endLine := end.Line
	if endLine > start.Line && end.Col == 1 {
		// span заканчивается переводом строки
		endLine--
	}
	first := start.Line - min(ctx, start.Line-1)
	last := min(endLine+ctx, f.Line(f.Len()))
	gutterWidth := len(strconv.FormatUint(uint64(last), 10))

	for line := first; line <= last; line++ {
		text := f.GetLine(line)
		display := p.clip(displayText(text))
		fmt.Fprintf(p.w, " %s %s %s\n", p.pal.gutter.Sprintf("%*d", gutterWidth, line), p.pal.gutter.Sprint("|"), display)

		if line < start.Line || line > endLine {
			continue
		}
		from := 0
		if line == start.Line {
			from = displayWidth(text[:min(int(start.Col-1), len(text))])
		}
		to := displayWidth(text)
		if line == end.Line {
			to = displayWidth(text[:min(int(end.Col-1), len(text))])
		}
		marker := underline(to - from)
		fmt.Fprintf(p.w, " %s %s %s%s\n", strings.Repeat(" ", gutterWidth), p.pal.gutter.Sprint("|"),
			strings.Repeat(" ", from), sev.Sprint(marker))
	}
}

func (p *prettyPrinter) clip(s string) string {
	if p.opts.Width == 0 || runewidth.StringWidth(s) <= int(p.opts.Width) {
		return s
	}
	return runewidth.Truncate(s, int(p.opts.Width), "...")
}

func underline(width int) string {
	if width <= 0 {
		return "^"
	}
	return "^" + strings.Repeat("~", width-1)
}

// displayText приводит строку к NFC и разворачивает табы, чтобы ширина
// совпадала с тем, что покажет терминал.
func displayText(s string) string {
	return strings.ReplaceAll(norm.NFC.String(s), "\t", strings.Repeat(" ", tabWidth))
}

func displayWidth(s string) int {
	return runewidth.StringWidth(displayText(s))
}

func (p *prettyPrinter) fixes(d *diag.Diagnostic) {
	ctx := diag.FixBuildContext{FileSet: p.fs}
	for i, f := range orderFixes(d.Fixes) {
		label := p.pal.fix.Sprintf("fix #%d:", i+1)
		resolved, err := f.Resolve(ctx)
		if err != nil {
			fmt.Fprintf(p.w, "  %s %s (unavailable: %v)\n", label, f.Title, err)
			continue
		}
		var extra strings.Builder
		if resolved.ID != "" {
			extra.WriteString(" id=" + resolved.ID)
		}
		if resolved.IsPreferred {
			extra.WriteString(" (preferred)")
		}
		fmt.Fprintf(p.w, "  %s %s [%s, %s]%s\n", label, resolved.Title, resolved.Kind, resolved.Applicability, extra.String())
		for _, edit := range resolved.Edits {
			fmt.Fprintf(p.w, "    edit %s apply=%q\n", p.editLocation(edit.Span), edit.NewText)
		}
		if p.opts.ShowPreview {
			p.preview(resolved)
		}
	}
}

func (p *prettyPrinter) editLocation(sp source.Span) string {
	if !p.fs.Has(sp.File) {
		return "?"
	}
	file := p.fs.Get(sp.File)
	start, end := file.Position(sp.Start), file.Position(sp.End)
	return fmt.Sprintf("%s:%d:%d-%d:%d", formatPath(p.fs, file, p.opts.PathMode), start.Line, start.Col, end.Line, end.Col)
}

func (p *prettyPrinter) preview(fix *diag.Fix) {
	pv, err := previewFix(p.fs, fix)
	if err != nil {
		return
	}
	fmt.Fprintln(p.w, "    preview:")
	for _, line := range pv.before {
		fmt.Fprintf(p.w, "      %s\n", p.pal.del.Sprint("- "+line))
	}
	for _, line := range pv.after {
		fmt.Fprintf(p.w, "      %s\n", p.pal.ins.Sprint("+ "+line))
	}
}
