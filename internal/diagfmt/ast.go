package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/list"

	"esfix/internal/ast"
	"esfix/internal/source"
)

// ASTNodeOutput is the JSON shape of one syntax tree node.
type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Field    string          `json:"field,omitempty"`
	Span     source.Span     `json:"span"`
	Text     string          `json:"text,omitempty"`
	Fields   map[string]any  `json:"fields,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

// FormatASTPretty печатает дерево с отступами ├─ / └─, по строке на узел.
func FormatASTPretty(w io.Writer, root *ast.Node, fs *source.FileSet) error {
	if root == nil {
		return fmt.Errorf("empty syntax tree")
	}
	header := "Program"
	if fs.Has(root.Span.File) {
		f := fs.Get(root.Span.File)
		header = f.DisplayPath(source.PathAsGiven, "")
	}
	fmt.Fprintf(w, "%s (span: %s)\n", header, formatSpan(root.Span, fs))
	writeFieldsPretty(w, root, fs, "")
	return nil
}

func writeFieldsPretty(w io.Writer, n *ast.Node, fs *source.FileSet, prefix string) {
	fields := n.Fields()
	for i, f := range fields {
		branch, next := "├─ ", "│  "
		if i == len(fields)-1 {
			branch, next = "└─ ", "   "
		}
		if f.Node == nil {
			fmt.Fprintf(w, "%s%s%s: <hole>\n", prefix, branch, fieldName(f))
			continue
		}
		fmt.Fprintf(w, "%s%s%s: %s (span: %s)\n", prefix, branch, fieldName(f), nodeLabel(f.Node), formatSpan(f.Node.Span, fs))
		writeFieldsPretty(w, f.Node, fs, prefix+next)
	}
}

// FormatASTTree печатает компактное дерево без позиций: только поля и
// подписи узлов.
func FormatASTTree(w io.Writer, root *ast.Node) error {
	if root == nil {
		return fmt.Errorf("empty syntax tree")
	}
	lw := list.NewWriter()
	lw.SetStyle(list.StyleConnectedRounded)
	lw.AppendItem(nodeLabel(root))
	appendTreeFields(lw, root)
	_, err := io.WriteString(w, lw.Render()+"\n")
	return err
}

func appendTreeFields(lw list.Writer, n *ast.Node) {
	fields := n.Fields()
	if len(fields) == 0 {
		return
	}
	lw.Indent()
	for _, f := range fields {
		if f.Node == nil {
			lw.AppendItem(fieldName(f) + ": <hole>")
			continue
		}
		lw.AppendItem(fieldName(f) + ": " + nodeLabel(f.Node))
		appendTreeFields(lw, f.Node)
	}
	lw.UnIndent()
}

func fieldName(f ast.Field) string {
	if f.Index < 0 {
		return f.Name
	}
	return fmt.Sprintf("%s[%d]", f.Name, f.Index)
}

// formatSpan renders span as "line:col-line:col", or by offsets when the
// file is unknown.
func formatSpan(span source.Span, fs *source.FileSet) string {
	if !fs.Has(span.File) {
		return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
	}
	start, end := fs.Resolve(span)
	return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
}

// nodeLabel: вид узла и его скалярные атрибуты в одну строку.
func nodeLabel(n *ast.Node) string {
	var b strings.Builder
	b.WriteString(n.Kind.String())
	if text := nodeText(n); text != "" {
		fmt.Fprintf(&b, " %s", text)
	}
	if n.Operator != "" {
		fmt.Fprintf(&b, " op=%s", n.Operator)
	}
	if n.DeclKind != "" {
		fmt.Fprintf(&b, " kind=%s", n.DeclKind)
	}
	if names := n.Flags.Names(); len(names) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(names, ","))
	}
	return b.String()
}

func nodeText(n *ast.Node) string {
	switch {
	case n.Name != "":
		return n.Name
	case n.Raw != "":
		return fmt.Sprintf("%q", n.Raw)
	}
	return ""
}

// FormatASTJSON выводит дерево в JSON.
func FormatASTJSON(w io.Writer, root *ast.Node) error {
	if root == nil {
		return fmt.Errorf("empty syntax tree")
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(nodeJSON(root, ""))
}

func nodeJSON(n *ast.Node, field string) ASTNodeOutput {
	out := ASTNodeOutput{Type: n.Kind.String(), Field: field, Span: n.Span}
	switch {
	case n.Name != "":
		out.Text = n.Name
	case n.Raw != "":
		out.Text = n.Raw
	}
	fields := make(map[string]any)
	if n.Operator != "" {
		fields["operator"] = n.Operator
	}
	if n.DeclKind != "" {
		fields["kind"] = n.DeclKind
	}
	if (n.Kind == ast.Literal && n.LitKind == ast.LitString) || (n.Kind == ast.TemplateElement && n.Cookable) {
		fields["cooked"] = n.Cooked
	}
	for _, name := range n.Flags.Names() {
		fields[name] = true
	}
	if len(fields) > 0 {
		out.Fields = fields
	}
	for _, f := range n.Fields() {
		name := fieldName(f)
		if f.Node == nil {
			out.Children = append(out.Children, ASTNodeOutput{Type: "Hole", Field: name})
			continue
		}
		out.Children = append(out.Children, nodeJSON(f.Node, name))
	}
	return out
}
