package manager_test

import (
	"testing"

	"copyselect/internal/manager"
	"copyselect/internal/ranges"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

const doc = "line0\nline1\nline2\nline3\n"

func TestText(t *testing.T) {
	dm := manager.NewDocumentManager()
	dm.Open("a.txt", doc)

	tests := []struct {
		start, end int
		want       string
		ok         bool
	}{
		{0, 0, "line0", true},
		{1, 2, "line1\nline2", true},
		{3, 99, "line3\n", true},
		{4, 4, "", true},
		{5, 6, "", false},
		{2, 1, "", false},
		{-1, 1, "", false},
	}

	for _, tt := range tests {
		got, ok := dm.Text("a.txt", tt.start, tt.end)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Text(%d, %d) = %q, %v; want %q, %v", tt.start, tt.end, got, ok, tt.want, tt.ok)
		}
	}

	if _, ok := dm.Text("missing.txt", 0, 0); ok {
		t.Error("Text on a closed document should fail")
	}
	if n := dm.LineCount("a.txt"); n != 5 {
		t.Errorf("LineCount = %d, want 5", n)
	}
}

func TestApplyChangeIncremental(t *testing.T) {
	dm := manager.NewDocumentManager()
	dm.Open("a.txt", doc)

	edit, ok, err := dm.ApplyChange("a.txt", protocol.TextDocumentContentChangeEvent{
		Range: &protocol.Range{
			Start: protocol.Position{Line: 1, Character: 0},
			End:   protocol.Position{Line: 1, Character: 0},
		},
		Text: "new\n",
	})
	if err != nil || !ok {
		t.Fatalf("ApplyChange: ok=%v err=%v", ok, err)
	}
	if want := (ranges.Edit{StartLine: 1, EndLine: 1, InsertedLines: 2}); edit != want {
		t.Errorf("edit = %+v, want %+v", edit, want)
	}

	got, err := dm.Document("a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if want := "line0\nnew\nline1\nline2\nline3\n"; got != want {
		t.Errorf("document = %q, want %q", got, want)
	}
	if text, _ := dm.Text("a.txt", 2, 2); text != "line1" {
		t.Errorf("Text(2, 2) = %q, want line1", text)
	}
}

func TestApplyChangeWhole(t *testing.T) {
	dm := manager.NewDocumentManager()
	dm.Open("a.txt", doc)

	_, ok, err := dm.ApplyChange("a.txt", protocol.TextDocumentContentChangeEventWhole{Text: "fresh"})
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("whole replacement should not report a line edit")
	}
	if got, _ := dm.Document("a.txt"); got != "fresh" {
		t.Errorf("document = %q, want fresh", got)
	}
}

func TestApplyChangeErrors(t *testing.T) {
	dm := manager.NewDocumentManager()

	if _, _, err := dm.ApplyChange("a.txt", protocol.TextDocumentContentChangeEventWhole{}); err == nil {
		t.Error("expected error for a document that is not open")
	}

	dm.Open("a.txt", doc)
	if _, _, err := dm.ApplyChange("a.txt", "bogus"); err == nil {
		t.Error("expected error for an unknown event type")
	}
}

func TestOpenClose(t *testing.T) {
	dm := manager.NewDocumentManager()
	dm.Open("a.txt", doc)
	dm.Open("b.txt", doc)
	if !dm.IsOpen("a.txt") {
		t.Fatal("a.txt should be open")
	}

	dm.Close("a.txt")
	if dm.IsOpen("a.txt") {
		t.Error("a.txt should be closed")
	}
	if _, err := dm.Document("a.txt"); err == nil {
		t.Error("Document on a closed file should fail")
	}

	dm.CloseAll()
	if dm.IsOpen("b.txt") || dm.LineCount("b.txt") != 0 {
		t.Error("CloseAll should forget every document")
	}
}
