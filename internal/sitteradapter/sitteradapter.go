package sitteradapter

import (
	"strings"
	"unicode/utf8"

	"copyselect/internal/ranges"

	sitter "github.com/smacker/go-tree-sitter"
	lsp "github.com/tliron/glsp/protocol_3_16"
)

// CreateTSEditAdapter converts an LSP TextDocumentContentChangeEvent into a
// tree-sitter EditInput describing the same change.
func CreateTSEditAdapter(
	lspEdit lsp.TextDocumentContentChangeEvent,
	document string, // Full document content before the change (UTF-8 encoded)
) sitter.EditInput {
	newText := lspEdit.Text

	startByte, startPoint := positionToOffset(document, lspEdit.Range.Start)
	oldEndByte, oldEndPoint := positionToOffset(document, lspEdit.Range.End)

	newEndByte := startByte + len(newText)
	newEndPoint := computeNewEndPoint(startPoint, newText)

	return sitter.EditInput{
		StartIndex:  uint32(startByte),
		OldEndIndex: uint32(oldEndByte),
		NewEndIndex: uint32(newEndByte),
		StartPoint:  startPoint,
		OldEndPoint: oldEndPoint,
		NewEndPoint: newEndPoint,
	}
}

// LineEdit reduces an EditInput to whole lines: the rows from StartPoint to
// OldEndPoint were replaced by the rows from StartPoint to NewEndPoint.
func LineEdit(in sitter.EditInput) ranges.Edit {
	return ranges.Edit{
		StartLine:     int(in.StartPoint.Row),
		EndLine:       int(in.OldEndPoint.Row),
		InsertedLines: int(in.NewEndPoint.Row-in.StartPoint.Row) + 1,
	}
}

// positionToOffset computes the byte offset and tree-sitter Point for an LSP Position.
func positionToOffset(document string, pos lsp.Position) (offset int, point sitter.Point) {
	lines := strings.Split(document, "\n")
	// Clamp line number
	if int(pos.Line) >= len(lines) {
		pos.Line = uint32(len(lines) - 1)
		pos.Character = uint32(utf16Len(lines[pos.Line]))
	}
	// Sum bytes for all lines before the target line (including newline)
	for i := uint32(0); i < pos.Line; i++ {
		offset += len(lines[i]) + 1
	}
	// Traverse runes in target line to match UTF-16 character count
	var charCount, byteCount int
	for _, r := range lines[pos.Line] {
		// Each codepoint uses 1 or 2 UTF-16 code units
		unitCount := 1
		if r > 0xFFFF {
			unitCount = 2
		}
		if uint32(charCount+unitCount) > pos.Character {
			break
		}
		charCount += unitCount
		byteCount += utf8.RuneLen(r)
	}
	offset += byteCount
	point = sitter.Point{Row: pos.Line, Column: uint32(byteCount)}
	return
}

func utf16Len(line string) int {
	n := 0
	for _, r := range line {
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// computeNewEndPoint computes the tree-sitter Point after inserting newText at startPoint.
func computeNewEndPoint(startPoint sitter.Point, newText string) sitter.Point {
	lines := strings.Split(newText, "\n")
	last := lines[len(lines)-1]
	row := startPoint.Row + uint32(len(lines)-1)
	col := uint32(len(last))
	if len(lines) == 1 {
		col += startPoint.Column
	}
	return sitter.Point{Row: row, Column: col}
}

// ApplyTextEdit applies a single LSP edit to the given document,
// using the same offsets that CreateTSEditAdapter computes.
func ApplyTextEdit(
	edit lsp.TextDocumentContentChangeEvent,
	document string,
) string {
	startOffset, _ := positionToOffset(document, edit.Range.Start)
	endOffset, _ := positionToOffset(document, edit.Range.End)
	if endOffset < startOffset {
		endOffset = startOffset
	}

	// LSP positions fall on code-unit boundaries and positionToOffset
	// respects them, so these are rune boundaries.
	return document[:startOffset] + edit.Text + document[endOffset:]
}
