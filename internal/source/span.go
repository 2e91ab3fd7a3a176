package source

import "fmt"

// Span is the half-open byte range [Start, End) of one file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// NoFile is the file id of spans that point nowhere.
const NoFile FileID = 1<<32 - 1

// Nowhere is the location of run-level diagnostics such as a bad config.
var Nowhere = Span{File: NoFile}

// Point returns the empty span at off.
func Point(file FileID, off uint32) Span {
	return Span{File: file, Start: off, End: off}
}

// IsNowhere reports whether s belongs to no file.
func (s Span) IsNowhere() bool { return s.File == NoFile }

// Empty reports a zero-width span.
func (s Span) Empty() bool { return s.Start >= s.End }

// Len returns the width in bytes.
func (s Span) Len() uint32 {
	if s.Empty() {
		return 0
	}
	return s.End - s.Start
}

// Cover widens s to include other. Spans of another file leave s unchanged.
func (s Span) Cover(other Span) Span {
	if other.File == s.File {
		s.Start = min(s.Start, other.Start)
		s.End = max(s.End, other.End)
	}
	return s
}

// Encloses reports whether other lies within s.
func (s Span) Encloses(other Span) bool {
	return other.File == s.File && s.Start <= other.Start && other.End <= s.End
}

func (s Span) String() string {
	if s.IsNowhere() {
		return "nowhere"
	}
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Ranged is implemented by everything that covers source text.
type Ranged interface {
	Range() Span
}

// Range returns s itself.
func (s Span) Range() Span { return s }
