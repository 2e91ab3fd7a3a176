// Package token defines lexical token kinds and comments for ECMAScript sources.
// Invariants:
//   - Token.Text is the exact source text of Token.Span.
//   - Contextual keywords (let, of, async, await, yield, static, get, set, from, as)
//     are identifiers; the parser decides their role.
//   - Comments never appear in the token stream; they are collected separately.
//   - Template literals are split into Template (no substitutions) or
//     TemplateHead / TemplateMiddle / TemplateTail with the expression tokens
//     between them. Each template token includes its delimiters.
package token
