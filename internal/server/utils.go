package server

import (
	"fmt"
	"math"

	"copyselect/internal/cache"
	"copyselect/internal/ranges"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// lineEnd is past the end of any line; clients clamp it to the line length.
const lineEnd = protocol.UInteger(math.MaxInt32)

func lineRange(span ranges.Span) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(span.StartLine), Character: 0},
		End:   protocol.Position{Line: protocol.UInteger(span.EndLine), Character: lineEnd},
	}
}

// publishHighlights sends the selected ranges of path as hint diagnostics.
// An empty list is sent too, it clears stale highlights.
func (s *Server) publishHighlights(context *glsp.Context, path cache.Path) {
	if !s.config.Highlight {
		return
	}
	h := s.store.Render(path)

	severity := protocol.DiagnosticSeverityHint
	source := lsName
	diagnostics := make([]protocol.Diagnostic, 0, len(h.Spans))
	for _, span := range h.Spans {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    lineRange(span),
			Severity: &severity,
			Source:   &source,
			Message:  fmt.Sprintf("selected lines %d-%d", span.StartLine+1, span.EndLine+1),
		})
	}

	context.Notify("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         s.resolver.URI(path),
		Diagnostics: diagnostics,
	})
}

func showMessage(context *glsp.Context, kind protocol.MessageType, message string) {
	context.Notify("window/showMessage", protocol.ShowMessageParams{
		Type:    kind,
		Message: message,
	})
}

// warn reports a persistence failure. The in-memory selections are still
// in effect.
func (s *Server) warn(context *glsp.Context, err error) {
	log.Warningf("%v", err)
	showMessage(context, protocol.MessageTypeWarning, fmt.Sprintf("Selections were not saved: %v", err))
}
