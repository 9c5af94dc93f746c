package server

import (
	"errors"
	"fmt"

	"copyselect/internal/cache"
	"copyselect/internal/ranges"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const (
	CommandSelectRange         = "copyselect.selectRange"
	CommandUnselectRange       = "copyselect.unselectRange"
	CommandUnselectAll         = "copyselect.unselectAll"
	CommandUnselectFile        = "copyselect.unselectFile"
	CommandClearFileSelections = "copyselect.clearFileSelections"
	CommandCopySelectedText    = "copyselect.copySelectedText"
	CommandListFiles           = "copyselect.listFiles"
	CommandOpenFile            = "copyselect.openFile"
)

// MethodWriteClipboard is the notification asking the client to put text on
// the system clipboard.
const MethodWriteClipboard = "copyselect/writeClipboard"

type ClipboardParams struct {
	Text string `json:"text"`
}

// FileItem is one entry of the selection tree.
type FileItem struct {
	Path   string             `json:"path"`
	Label  string             `json:"label"`
	URI    string             `json:"uri"`
	Ranges int                `json:"ranges"`
	Lines  int                `json:"lines"`
	Spans  []ranges.LineRange `json:"spans"`
}

func commandNames() []string {
	return []string{
		CommandSelectRange,
		CommandUnselectRange,
		CommandUnselectAll,
		CommandUnselectFile,
		CommandClearFileSelections,
		CommandCopySelectedText,
		CommandListFiles,
		CommandOpenFile,
	}
}

func (s *Server) workspaceExecuteCommand(
	context *glsp.Context,
	params *protocol.ExecuteCommandParams,
) (any, error) {
	log.Debugf("command %s %v", params.Command, params.Arguments)

	switch params.Command {
	case CommandSelectRange:
		return nil, s.selectRange(context, params.Arguments)
	case CommandUnselectRange:
		return nil, s.unselectRange(context, params.Arguments)
	case CommandUnselectAll, CommandUnselectFile:
		return nil, s.unselectFile(context, params.Arguments, false)
	case CommandClearFileSelections:
		return nil, s.unselectFile(context, params.Arguments, true)
	case CommandCopySelectedText:
		return s.copySelectedText(context), nil
	case CommandListFiles:
		return s.listFiles(), nil
	case CommandOpenFile:
		return nil, s.openFile(context, params.Arguments)
	default:
		return nil, fmt.Errorf("unknown command %q", params.Command)
	}
}

func (s *Server) selectRange(context *glsp.Context, args []any) error {
	path, span, err := s.spanArgs(args)
	if err != nil {
		return err
	}

	_, err = s.store.Select(path, span, "")
	var overlap *ranges.OverlapError
	switch {
	case errors.As(err, &overlap):
		showMessage(context, protocol.MessageTypeInfo, "This range or part of it is already selected.")
		return nil
	case cache.IsWarning(err):
		s.warn(context, err)
	case err != nil:
		return err
	}

	s.publishHighlights(context, path)
	return nil
}

func (s *Server) unselectRange(context *glsp.Context, args []any) error {
	path, span, err := s.spanArgs(args)
	if err != nil {
		return err
	}

	_, err = s.store.Unselect(path, span)
	switch {
	case errors.Is(err, cache.ErrNotFound):
		return nil
	case cache.IsWarning(err):
		s.warn(context, err)
	case err != nil:
		return err
	}

	s.publishHighlights(context, path)
	return nil
}

// unselectFile drops every range of one file. verbose reports the outcome
// to the user either way.
func (s *Server) unselectFile(context *glsp.Context, args []any, verbose bool) error {
	path, err := s.fileArg(args)
	if err != nil {
		return err
	}
	label := s.resolver.Relative(path)

	_, err = s.store.RemoveFile(path)
	switch {
	case errors.Is(err, cache.ErrNotFound):
		if verbose {
			showMessage(context, protocol.MessageTypeInfo, "No selections found for file: "+label)
		}
		return nil
	case cache.IsWarning(err):
		s.warn(context, err)
	case err != nil:
		return err
	}

	if verbose {
		showMessage(context, protocol.MessageTypeInfo, "Selections cleared for file: "+label)
	}
	s.publishHighlights(context, path)
	return nil
}

func (s *Server) copySelectedText(context *glsp.Context) string {
	text := cache.Join(s.store.Collect(), s.config.Separator)
	context.Notify(MethodWriteClipboard, ClipboardParams{Text: text})
	return text
}

func (s *Server) listFiles() []FileItem {
	files := s.store.Files()
	items := make([]FileItem, 0, len(files))
	for _, f := range files {
		items = append(items, FileItem{
			Path:   f.Path,
			Label:  s.resolver.Relative(f.Path),
			URI:    s.resolver.URI(f.Path),
			Ranges: f.Ranges,
			Lines:  f.Lines,
			Spans:  s.store.Ranges(f.Path),
		})
	}
	return items
}

func (s *Server) openFile(context *glsp.Context, args []any) error {
	path, err := s.fileArg(args)
	if err != nil {
		return err
	}

	params := protocol.ShowDocumentParams{
		URI:       s.resolver.URI(path),
		External:  &protocol.False,
		TakeFocus: &protocol.True,
	}
	if spans := s.store.Render(path).Spans; len(spans) > 0 {
		r := lineRange(spans[0])
		params.Selection = &r
	}
	context.Notify("window/showDocument", params)
	return nil
}

func (s *Server) fileArg(args []any) (cache.Path, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("expected a document argument")
	}
	ref, ok := args[0].(string)
	if !ok {
		return "", fmt.Errorf("document argument must be a string, got %T", args[0])
	}
	return s.resolver.Resolve(ref)
}

func (s *Server) spanArgs(args []any) (cache.Path, ranges.Span, error) {
	if len(args) < 3 {
		return "", ranges.Span{}, fmt.Errorf("expected [document, startLine, endLine], got %d arguments", len(args))
	}
	path, err := s.fileArg(args)
	if err != nil {
		return "", ranges.Span{}, err
	}
	start, err := lineArg(args[1])
	if err != nil {
		return "", ranges.Span{}, err
	}
	end, err := lineArg(args[2])
	if err != nil {
		return "", ranges.Span{}, err
	}

	// A selection made bottom-up arrives with its lines reversed.
	if end < start {
		start, end = end, start
	}
	span := ranges.Span{StartLine: start, EndLine: end}
	if !span.Valid() {
		return "", ranges.Span{}, fmt.Errorf("%w: %s", ranges.ErrInvalidRange, span)
	}
	return path, span, nil
}

func lineArg(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("line %v is not an integer", n)
		}
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, fmt.Errorf("line must be a number, got %T", v)
	}
}
