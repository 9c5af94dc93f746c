package store_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"copyselect/internal/cache/store"
	"copyselect/internal/ranges"
)

func sampleSnapshot() store.Snapshot {
	return store.Snapshot{
		"/work/a.go": {
			{StartLine: 0, EndLine: 2, Content: "package a\n\nimport \"fmt\""},
			{StartLine: 5, EndLine: 7, Content: "<tag> & \"quotes\"\n\ttabbed"},
		},
		"/work/b.txt": {
			{StartLine: 1, EndLine: 1, Content: ""},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	data, err := store.Encode(sampleSnapshot())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	got, err := store.Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(got, sampleSnapshot()) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", got, sampleSnapshot())
	}
}

func TestEncodeSortsAndIndents(t *testing.T) {
	snap := store.Snapshot{
		"/f": {
			{StartLine: 9, EndLine: 9, Content: "late"},
			{StartLine: 1, EndLine: 2, Content: "early"},
		},
		"/empty": nil,
	}
	data, err := store.Encode(snap)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	text := string(data)

	if strings.Index(text, "early") > strings.Index(text, "late") {
		t.Errorf("ranges not sorted by start line:\n%s", text)
	}
	if strings.Contains(text, "/empty") {
		t.Errorf("empty path was written:\n%s", text)
	}
	if !strings.Contains(text, "\n  \"/f\": [\n    {\n      \"startLine\": 1,") {
		t.Errorf("unexpected layout:\n%s", text)
	}
}

func TestDecodeDropsMalformedEntries(t *testing.T) {
	data := []byte(`{
  "/ok": [
    {"startLine": 1, "endLine": 2, "content": "fine"},
    {"startLine": "one", "endLine": 2},
    {"endLine": 4},
    {"startLine": 6, "endLine": 6}
  ],
  "/broken": {"startLine": 1}
}`)

	snap, err := store.Decode(data)
	var malformed *store.MalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedError, got %v", err)
	}
	if len(malformed.Entries) != 3 {
		t.Errorf("expected 3 malformed entries, got %v", malformed.Entries)
	}

	want := store.Snapshot{
		"/ok": {
			{StartLine: 1, EndLine: 2, Content: "fine"},
			{StartLine: 6, EndLine: 6},
		},
	}
	if !reflect.DeepEqual(snap, want) {
		t.Errorf("Decode() = %#v, want %#v", snap, want)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := store.Decode([]byte("[1, 2"))
	if err == nil {
		t.Fatal("expected error")
	}
	var malformed *store.MalformedError
	if errors.As(err, &malformed) {
		t.Error("garbage must not be reported as per-entry damage")
	}
}

func TestFileBackend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state", "selections.json")

	f, err := store.NewFile(path)
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}

	empty, err := f.Load()
	if err != nil || len(empty) != 0 {
		t.Fatalf("Load() on missing file = %v, %v", empty, err)
	}

	if err := f.Save(sampleSnapshot()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := f.Save(sampleSnapshot()); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "selections.json" {
		t.Errorf("temporary files left behind: %v", entries)
	}

	got, err := f.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, sampleSnapshot()) {
		t.Errorf("Load() = %#v", got)
	}

	f.Close()
	if err := f.Save(sampleSnapshot()); !errors.Is(err, store.ErrClosed) {
		t.Errorf("Save after Close = %v, want ErrClosed", err)
	}
}

func TestMemoryBackend(t *testing.T) {
	m := store.NewMemory()
	if err := m.Save(sampleSnapshot()); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("disk full")
	m.FailSaves(boom)
	if err := m.Save(store.Snapshot{}); !errors.Is(err, boom) {
		t.Errorf("Save() = %v, want %v", err, boom)
	}
	if m.Saves() != 1 {
		t.Errorf("Saves() = %d, want 1", m.Saves())
	}
	if !reflect.DeepEqual(m.Saved(), sampleSnapshot()) {
		t.Errorf("failed save replaced the stored snapshot")
	}
}

func TestCloneSortsRanges(t *testing.T) {
	snap := store.Snapshot{"/x": {{StartLine: 4, EndLine: 4}, {StartLine: 0, EndLine: 1}}}
	got := snap.Clone()["/x"]
	want := []ranges.LineRange{{StartLine: 0, EndLine: 1}, {StartLine: 4, EndLine: 4}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Clone() = %v, want %v", got, want)
	}
	if snap["/x"][0].StartLine != 4 {
		t.Error("Clone modified the original")
	}
}
