package lsp

import (
	"net/url"
	"path/filepath"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// uriToPath returns the local path of a file: URI, or "" for documents that
// do not live on disk (untitled:, git: and the like). A bare path is
// accepted as is.
func uriToPath(uri protocol.DocumentUri) string {
	u, err := url.Parse(string(uri))
	if err != nil || uri == "" {
		return ""
	}
	var p string
	switch u.Scheme {
	case "file":
		p = u.Path // url.Parse уже снял %-кодирование
	case "":
		p = string(uri)
	default:
		return ""
	}
	abs, err := filepath.Abs(filepath.FromSlash(p))
	if err != nil {
		return filepath.FromSlash(p)
	}
	return abs
}
