package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.bs", []byte("hello world"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}
	id2 := fs.Add("test.bs", []byte("hello universe"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latestID, exists := fs.GetLatest("test.bs")
	if !exists || latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d (exists=%v)", id2, latestID, exists)
	}
	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Errorf("old version must stay reachable, got %q", got)
	}
	if fs.Get(42) != nil {
		t.Errorf("unknown id must resolve to nil")
	}
}

func TestResolve_LineColumns(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("pos.bs", []byte("ab\ncd\r\nef\rgh"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{2, LineCol{Line: 1, Col: 3}}, // '\n' itself belongs to line 1
		{3, LineCol{Line: 2, Col: 1}},
		{5, LineCol{Line: 2, Col: 3}}, // '\r' of "\r\n"
		{7, LineCol{Line: 3, Col: 1}},
		{10, LineCol{Line: 4, Col: 1}}, // after lone '\r'
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("offset %d: got %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestResolve_ColumnsCountRunes(t *testing.T) {
	fs := NewFileSet()
	// "é" и "世" занимают 2 и 3 байта, 0xff - невалидный байт
	id := fs.AddVirtual("wide.bs", []byte("é世x\n\xffy"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{2, LineCol{Line: 1, Col: 2}}, // '世'
		{5, LineCol{Line: 1, Col: 3}}, // 'x'
		{6, LineCol{Line: 1, Col: 4}}, // '\n'
		{8, LineCol{Line: 2, Col: 2}}, // 'y' после невалидного байта
		{9, LineCol{Line: 2, Col: 3}}, // конец файла
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("offset %d: got %+v, want %+v", tt.off, start, tt.want)
		}
		if pos := fs.Get(id).Position(tt.off); pos != tt.want {
			t.Errorf("Position(%d) = %+v, want %+v", tt.off, pos, tt.want)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("lines.bs", []byte("first\r\nsecond\nthird")))

	cases := map[uint32]string{0: "", 1: "first", 2: "second", 3: "third", 4: ""}
	for n, want := range cases {
		if got := f.GetLine(n); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestLoad_DecodesBOM(t *testing.T) {
	dir := t.TempDir()

	utf8Path := filepath.Join(dir, "utf8.bs")
	if err := os.WriteFile(utf8Path, []byte("\xEF\xBB\xBFmodule"), 0o600); err != nil {
		t.Fatal(err)
	}
	// "int" в UTF-16LE с BOM
	utf16Path := filepath.Join(dir, "utf16.bs")
	if err := os.WriteFile(utf16Path, []byte{0xFF, 0xFE, 'i', 0, 'n', 0, 't', 0}, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSetWithBase(dir)
	id, err := fs.Load(utf8Path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "module" || f.Flags&FileHadBOM == 0 {
		t.Errorf("utf-8 BOM not stripped: %q flags=%b", f.Content, f.Flags)
	}

	id, err = fs.Load(utf16Path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f = fs.Get(id)
	if string(f.Content) != "int" || f.Flags&FileDecodedUTF16 == 0 {
		t.Errorf("utf-16 not decoded: %q flags=%b", f.Content, f.Flags)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "nope.bs")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
