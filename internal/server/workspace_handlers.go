package server

import (
	"strings"
	"unicode/utf8"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const maxSymbols = 128

// workspaceSymbol lists files with selections whose relative path contains
// the query as a case-insensitive subsequence. Each symbol points at the
// first selected range of its file.
func (s *Server) workspaceSymbol(
	context *glsp.Context,
	params *protocol.WorkspaceSymbolParams,
) ([]protocol.SymbolInformation, error) {
	symbols := []protocol.SymbolInformation{}
	for _, f := range s.store.Files() {
		label := s.resolver.Relative(f.Path)
		if !isSubsequence(params.Query, label) {
			continue
		}

		location := protocol.Location{URI: s.resolver.URI(f.Path)}
		if spans := s.store.Render(f.Path).Spans; len(spans) > 0 {
			location.Range = lineRange(spans[0])
		}
		symbols = append(symbols, protocol.SymbolInformation{
			Name:     label,
			Kind:     protocol.SymbolKindFile,
			Location: location,
		})
		if len(symbols) == maxSymbols {
			break
		}
	}
	return symbols, nil
}

func isSubsequence(query, s string) bool {
	query = strings.ToLower(query)
	for _, r := range strings.ToLower(s) {
		if query == "" {
			return true
		}
		q, size := utf8.DecodeRuneInString(query)
		if r == q {
			query = query[size:]
		}
	}
	return query == ""
}
