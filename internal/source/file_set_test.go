package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("main.go", []byte("// TODO: one"), 0)
	id2 := fs.Add("main.go", []byte("// TODO: two"), 0)
	if id1 != 0 || id2 != 1 {
		t.Fatalf("expected ids 0 and 1, got %d and %d", id1, id2)
	}
	if got := fs.Get(id2); got.ID != id2 || got.Path != "main.go" {
		t.Fatalf("unexpected latest version %+v", got)
	}
	if got := string(fs.Get(id1).Content); got != "// TODO: one" {
		t.Fatalf("old version lost: %q", got)
	}
	if fs.Get(id1).Hash == fs.Get(id2).Hash {
		t.Fatal("different content should hash differently")
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("<stdin>", []byte("a\nb\n")))

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Fatalf("expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Fatal("expected FileVirtual flag to be set")
	}
}

func TestNormalize(t *testing.T) {
	content, flags := Normalize([]byte{0xEF, 0xBB, 0xBF, 'a', '\r', '\n', 'b', '\r', 'c'})
	if string(content) != "a\nb\rc" {
		t.Fatalf("unexpected normalized content %q", content)
	}
	if flags&FileHadBOM == 0 || flags&FileNormalizedCRLF == 0 {
		t.Fatalf("expected BOM and CRLF flags, got %b", flags)
	}
	plain, flags := Normalize([]byte("plain\n"))
	if string(plain) != "plain\n" || flags != 0 {
		t.Fatalf("plain content changed: %q flags=%b", plain, flags)
	}
}

func TestLoadCRLF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crlf.ts")
	if err := os.WriteFile(path, []byte("// TODO: a\r\n// FIXME: b\r\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	file := fs.Get(id)
	if file.Line(1) != "// FIXME: b" {
		t.Fatalf("unexpected line 1: %q", file.Line(1))
	}
	if file.Flags&FileNormalizedCRLF == 0 {
		t.Fatal("expected FileNormalizedCRLF flag")
	}
}

func TestLoadMissing(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "missing.go")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("x", []byte("ab\ncd\n"))
	start, end := fs.Resolve(Span{File: id, Start: 3, End: 5})
	if start != (LineCol{Line: 2, Col: 1}) || end != (LineCol{Line: 2, Col: 3}) {
		t.Fatalf("unexpected resolve: %+v %+v", start, end)
	}
	first, _ := fs.Resolve(Span{File: id, Start: 0, End: 2})
	if first != (LineCol{Line: 1, Col: 1}) {
		t.Fatalf("unexpected first position: %+v", first)
	}
}

func TestDisplayPath(t *testing.T) {
	base := t.TempDir()
	fs := NewFileSetWithBase(base)
	inside := fs.Get(fs.Add(filepath.Join(base, "pkg", "a.go"), nil, 0))
	if got := fs.DisplayPath(inside); got != "pkg/a.go" {
		t.Fatalf("expected relative path, got %q", got)
	}
	outside := fs.Get(fs.Add(filepath.Join(filepath.Dir(base), "elsewhere.go"), nil, 0))
	if got := fs.DisplayPath(outside); got != outside.Path {
		t.Fatalf("expected untouched path, got %q", got)
	}
}
