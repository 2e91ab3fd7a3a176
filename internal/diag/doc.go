// Package diag defines the diagnostic model shared by the lexer, the parser,
// the rule engine and every output.
//
// A Diagnostic carries a Severity, a Code, a message, a primary span, optional
// notes and optional fixes. Built-in codes are phase-prefixed (LEX, SYN, IO,
// OBS, ENG, see codes.go); rule findings use the rule name as their code, so
// `throw-new-error` is both the rule and the code printed for it.
//
// # Fixes
//
// A Fix is a list of TextEdits in source coordinates plus metadata: Kind (the
// LSP code action kind), Applicability and an optional ID used by
// `esfix fix --id`. Fixes with ManualReview applicability are suggestions:
// they are offered in the editor and printed by the CLI, but the fix loop
// applies them only with --suggestions. Everything else is an automatic fix.
//
// A Fix may carry a Thunk instead of edits. Resolve runs it once and returns a
// copy with the edits filled in; the rule dispatcher resolves every fix right
// after a rule reports, so consumers downstream only see concrete edits.
//
// OldText on a TextEdit is a guard: the fix is rejected when the buffer no
// longer holds that text at the span.
//
// # Collecting
//
// The lexer and parser emit through a Reporter (BagReporter stores into a
// Bag). A Bag caps the number of diagnostics per file, counts what it drops,
// deduplicates and sorts. Rendering lives in internal/diagfmt.
package diag
