package diag

// Code identifies a diagnostic. Built-in codes carry a phase prefix; rule
// diagnostics use the rule name as their code.
type Code string

const (
	UnknownCode Code = "E0000"

	// лексические
	LexUnknownChar              Code = "LEX1001"
	LexUnterminatedString       Code = "LEX1002"
	LexUnterminatedBlockComment Code = "LEX1003"
	LexBadNumber                Code = "LEX1004"
	LexUnterminatedTemplate     Code = "LEX1005"
	LexUnterminatedRegExp       Code = "LEX1006"
	LexBadEscape                Code = "LEX1007"

	// синтаксические
	SynUnexpectedToken     Code = "SYN2001"
	SynExpectSemicolon     Code = "SYN2002"
	SynInvalidAssignTarget Code = "SYN2003"
	SynInvalidToken        Code = "SYN2004"

	// ввод-вывод
	IOReadFailed  Code = "IO4001"
	IOWriteFailed Code = "IO4002"

	// наблюдаемость
	ObsTimings Code = "OBS5001"

	// движок правил
	EngRuleFailed  Code = "ENG9001"
	EngFixRejected Code = "ENG9002"
	EngUnknownRule Code = "ENG9003"
	EngTruncated   Code = "ENG9004"
)

var codeDescription = map[Code]string{
	UnknownCode:                 "unknown error",
	LexUnknownChar:              "unknown character",
	LexUnterminatedString:       "unterminated string literal",
	LexUnterminatedBlockComment: "unterminated block comment",
	LexBadNumber:                "malformed number literal",
	LexUnterminatedTemplate:     "unterminated template literal",
	LexUnterminatedRegExp:       "unterminated regular expression",
	LexBadEscape:                "malformed escape sequence",
	SynUnexpectedToken:          "unexpected token",
	SynExpectSemicolon:          "missing semicolon",
	SynInvalidAssignTarget:      "invalid assignment target",
	SynInvalidToken:             "invalid token",
	IOReadFailed:                "cannot read file",
	IOWriteFailed:               "cannot write file",
	ObsTimings:                  "timing report",
	EngRuleFailed:               "rule failed",
	EngFixRejected:              "fix rejected",
	EngUnknownRule:              "unknown rule",
	EngTruncated:                "diagnostic limit reached",
}

// ID returns the stable identifier printed in output.
func (c Code) ID() string {
	if c == "" {
		return string(UnknownCode)
	}
	return string(c)
}

// Title returns the short description of a built-in code, or the code itself.
func (c Code) Title() string {
	if desc, ok := codeDescription[c]; ok {
		return desc
	}
	return string(c)
}

// IsFatal reports whether the code stops rule evaluation for the file.
func (c Code) IsFatal() bool {
	return len(c) == 7 && (c[:3] == "LEX" || c[:3] == "SYN")
}

func (c Code) String() string {
	return "[" + c.ID() + "]: " + c.Title()
}
