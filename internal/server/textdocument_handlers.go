package server

import (
	"copyselect/internal/ranges"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentDidOpen(
	context *glsp.Context,
	params *protocol.DidOpenTextDocumentParams,
) error {
	path, err := s.resolver.Resolve(params.TextDocument.URI)
	if err != nil {
		return err
	}
	s.manager.Open(path, params.TextDocument.Text)
	if _, err := s.store.Refresh(path); err != nil {
		s.warn(context, err)
	}
	s.publishHighlights(context, path)
	return nil
}

func (s *Server) textDocumentDidChange(
	context *glsp.Context,
	params *protocol.DidChangeTextDocumentParams,
) error {
	path, err := s.resolver.Resolve(params.TextDocument.URI)
	if err != nil {
		return err
	}

	// Each change is relative to the text left by the previous one, so the
	// edits are applied to the ranges in the same order.
	var edits []ranges.Edit
	for _, raw := range params.ContentChanges {
		edit, ok, err := s.manager.ApplyChange(path, raw)
		if err != nil {
			return err
		}
		if ok {
			edits = append(edits, edit)
		}
	}

	if len(edits) > 0 {
		change, err := s.store.ApplyEdits(path, edits)
		if err != nil {
			s.warn(context, err)
		}
		log.Debugf("%d edits: %s", len(edits), change)
	} else if _, err := s.store.Refresh(path); err != nil {
		s.warn(context, err)
	}

	s.publishHighlights(context, path)
	return nil
}

func (s *Server) textDocumentDidClose(
	context *glsp.Context,
	params *protocol.DidCloseTextDocumentParams,
) error {
	path, err := s.resolver.Resolve(params.TextDocument.URI)
	if err != nil {
		return err
	}
	s.manager.Close(path)
	return nil
}

func (s *Server) textDocumentDocumentHighlight(
	context *glsp.Context,
	params *protocol.DocumentHighlightParams,
) ([]protocol.DocumentHighlight, error) {
	path, err := s.resolver.Resolve(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	kind := protocol.DocumentHighlightKindText
	spans := s.store.Render(path).Spans
	highlights := make([]protocol.DocumentHighlight, 0, len(spans))
	for _, span := range spans {
		highlights = append(highlights, protocol.DocumentHighlight{
			Range: lineRange(span),
			Kind:  &kind,
		})
	}
	return highlights, nil
}
