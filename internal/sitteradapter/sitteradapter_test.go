package sitteradapter_test

import (
	"testing"

	"copyselect/internal/ranges"
	"copyselect/internal/sitteradapter"

	lsp "github.com/tliron/glsp/protocol_3_16"
)

func change(sl, sc, el, ec uint32, text string) lsp.TextDocumentContentChangeEvent {
	return lsp.TextDocumentContentChangeEvent{
		Range: &lsp.Range{
			Start: lsp.Position{Line: sl, Character: sc},
			End:   lsp.Position{Line: el, Character: ec},
		},
		Text: text,
	}
}

func TestLineEdit(t *testing.T) {
	doc := "zero\none\ntwo\nthree\nfour\nfive\nsix\n"

	tests := []struct {
		name   string
		change lsp.TextDocumentContentChangeEvent
		want   ranges.Edit
	}{
		{"typing in a line", change(2, 1, 2, 1, "x"), ranges.Edit{StartLine: 2, EndLine: 2, InsertedLines: 1}},
		{"newline inserted", change(5, 0, 5, 0, "\n"), ranges.Edit{StartLine: 5, EndLine: 5, InsertedLines: 2}},
		{"two lines pasted", change(1, 3, 1, 3, "a\nb\nc"), ranges.Edit{StartLine: 1, EndLine: 1, InsertedLines: 3}},
		{"lines joined", change(4, 4, 5, 0, ""), ranges.Edit{StartLine: 4, EndLine: 5, InsertedLines: 1}},
		{"block deleted", change(1, 0, 4, 0, ""), ranges.Edit{StartLine: 1, EndLine: 4, InsertedLines: 1}},
		{"block replaced", change(1, 0, 3, 2, "x\ny"), ranges.Edit{StartLine: 1, EndLine: 3, InsertedLines: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sitteradapter.LineEdit(sitteradapter.CreateTSEditAdapter(tt.change, doc))
			if got != tt.want {
				t.Errorf("LineEdit = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCreateTSEditAdapterOffsets(t *testing.T) {
	doc := "ab\ncd\n"
	in := sitteradapter.CreateTSEditAdapter(change(1, 1, 1, 2, "xyz"), doc)

	if in.StartIndex != 4 || in.OldEndIndex != 5 || in.NewEndIndex != 7 {
		t.Errorf("indices = %d/%d/%d, want 4/5/7", in.StartIndex, in.OldEndIndex, in.NewEndIndex)
	}
	if in.StartPoint.Row != 1 || in.StartPoint.Column != 1 {
		t.Errorf("StartPoint = %+v", in.StartPoint)
	}
	if in.NewEndPoint.Row != 1 || in.NewEndPoint.Column != 4 {
		t.Errorf("NewEndPoint = %+v, want row 1 column 4", in.NewEndPoint)
	}
}

func TestApplyTextEdit(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		change lsp.TextDocumentContentChangeEvent
		want   string
	}{
		{"insert", "hello\nworld", change(1, 0, 1, 0, "big "), "hello\nbig world"},
		{"delete across lines", "hello\nworld", change(0, 5, 1, 0, ""), "helloworld"},
		{"replace", "a\nb\nc", change(1, 0, 1, 1, "B"), "a\nB\nc"},
		{"line past the end", "a\nb", change(9, 0, 9, 0, "!"), "a\nb!"},
		{"reversed range", "abc", change(0, 2, 0, 1, "x"), "abxc"},
		// é is one UTF-16 unit and two bytes, the emoji two units and four bytes.
		{"utf16 positions", "é😀z", change(0, 3, 0, 4, "Z"), "é😀Z"},
		{"inside surrogate pair", "a😀b", change(0, 2, 0, 2, "|"), "a|😀b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sitteradapter.ApplyTextEdit(tt.change, tt.doc)
			if got != tt.want {
				t.Errorf("ApplyTextEdit = %q, want %q", got, tt.want)
			}
		})
	}
}
