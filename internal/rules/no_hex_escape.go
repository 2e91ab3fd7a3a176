package rules

import (
	"iter"
	"strings"

	"esfix/internal/ast"
	"esfix/internal/fix"
	"esfix/internal/rule"
)

// NoHexEscape rewrites `\xNN` escapes as `\u00NN`.
func NoHexEscape() *rule.Definition {
	return &rule.Definition{
		Name:        "no-hex-escape",
		Description: "Enforce the use of Unicode escapes instead of hexadecimal escapes.",
		Fixable:     true,
		Messages: map[string]string{
			"no-hex-escape": "Use Unicode escapes instead of hexadecimal escapes.",
		},
		Create: func(ctx *rule.Context) error {
			ctx.On(ast.Literal, func(n *ast.Node) iter.Seq[*rule.Problem] {
				switch n.LitKind {
				case ast.LitString:
					body, ok := replaceHexEscapes(n.Raw[1 : len(n.Raw)-1])
					if !ok {
						return nil
					}
					return hexProblem(n, func(fx *fix.Fixer) error { return fix.ReplaceLiteralRaw(fx, n, body) })
				case ast.LitRegExp:
					raw, ok := replaceHexEscapes(n.Raw)
					if !ok {
						return nil
					}
					return hexProblem(n, func(fx *fix.Fixer) error { return fx.Replace(n, raw) })
				}
				return nil
			})
			ctx.On(ast.TemplateElement, func(n *ast.Node) iter.Seq[*rule.Problem] {
				if isStringRaw(n.Parent) {
					return nil
				}
				body, ok := replaceHexEscapes(n.Raw)
				if !ok {
					return nil
				}
				return hexProblem(n, func(fx *fix.Fixer) error { return fix.ReplaceLiteralRaw(fx, n, body) })
			})
			return nil
		},
	}
}

func hexProblem(n *ast.Node, patch rule.Patch) iter.Seq[*rule.Problem] {
	return rule.Report(&rule.Problem{Node: n, MessageID: "no-hex-escape", Fix: patch})
}

// isStringRaw: шаблон под тегом String.raw, где escape не интерпретируются.
func isStringRaw(tmpl *ast.Node) bool {
	if tmpl == nil || tmpl.Parent == nil || tmpl.Parent.Kind != ast.TaggedTemplateExpression {
		return false
	}
	return isMember(tmpl.Parent.Tag, "String", "raw")
}

// replaceHexEscapes rewrites every unescaped `\xNN` in raw.
func replaceHexEscapes(raw string) (string, bool) {
	if !strings.Contains(raw, `\x`) {
		return "", false
	}
	var b strings.Builder
	changed := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			b.WriteByte(c)
			continue
		}
		if raw[i+1] == 'x' && i+3 < len(raw) && isHex(raw[i+2]) && isHex(raw[i+3]) {
			b.WriteString(`\u00`)
			b.WriteString(raw[i+2 : i+4])
			i += 3
			changed = true
			continue
		}
		b.WriteByte(c)
		b.WriteByte(raw[i+1])
		i++
	}
	return b.String(), changed
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
