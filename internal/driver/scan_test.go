package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"todohl/internal/observ"
	"todohl/internal/rank"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		abs := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	return dir
}

func relPaths(t *testing.T, base string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(base, p)
		if err != nil {
			t.Fatalf("rel: %v", err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestDiscoverSkipsHiddenAndVendored(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.go":                 "// TODO: a",
		"web/app.ts":              "// FIXME: b",
		"README.md":               "nothing",
		".git/HEAD":               "ref",
		"node_modules/x/index.js": "// TODO: vendored",
		"vendor/y/y.go":           "// TODO: vendored",
		"testdata/z.go":           "// TODO: excluded",
	})
	files, err := Discover([]string{dir}, Options{Exclude: []string{"testdata"}})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	got := relPaths(t, dir, files)
	want := []string{"README.md", "main.go", "web/app.ts"}
	if !slices.Equal(got, want) {
		t.Fatalf("Discover = %v, want %v", got, want)
	}

	files, err = Discover([]string{dir}, Options{Extensions: []string{"go", ".TS"}, Exclude: []string{"testdata"}})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	got = relPaths(t, dir, files)
	want = []string{"main.go", "web/app.ts"}
	if !slices.Equal(got, want) {
		t.Fatalf("Discover with extensions = %v, want %v", got, want)
	}
}

func TestDiscoverExplicitFileAndDedup(t *testing.T) {
	dir := writeTree(t, map[string]string{"notes.txt": "// TODO: x"})
	path := filepath.Join(dir, "notes.txt")
	files, err := Discover([]string{path, dir}, Options{Extensions: []string{".go"}})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(files) != 1 || files[0] != path {
		t.Fatalf("expected only the explicit file, got %v", files)
	}
	if _, err := Discover([]string{filepath.Join(dir, "missing")}, Options{}); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestScanFilesParallel(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.go":    "// TODO(P2): refactor this\n",
		"b.go":    "package b\n// FIXME: crash on null\n// TODO: later\n",
		"c.go":    "package c\n",
		"bin.dat": "\x00\x01// TODO: hidden in binary",
	})
	paths, err := Discover([]string{dir}, Options{})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	timer := observ.NewTimer()
	fileSet, results, err := ScanFiles(context.Background(), dir, paths, Options{Jobs: 2, Timer: timer})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results (binary skipped), got %d", len(results))
	}
	if filepath.Base(results[0].Path) != "a.go" || results[0].Result.Count(rank.Medium) != 1 {
		t.Fatalf("unexpected a.go result: %+v", results[0])
	}
	b := results[1]
	if len(b.Result.Ordered) != 2 || b.Result.Ordered[0].Line != 1 || b.Result.Ordered[0].Bucket != rank.Fixme {
		t.Fatalf("unexpected b.go result: %+v", b.Result.Ordered)
	}
	if fileSet.DisplayPath(fileSet.Get(b.FileID)) != "b.go" {
		t.Fatalf("unexpected display path %q", fileSet.DisplayPath(fileSet.Get(b.FileID)))
	}
	summary := Summary(results)
	if summary[rank.Fixme] != 1 || summary[rank.Medium] != 1 || summary[rank.Low] != 1 || summary[rank.High] != 0 {
		t.Fatalf("unexpected summary: %v", summary)
	}
	if len(timer.Report().Phases) != 2 {
		t.Fatalf("expected load and scan phases, got %+v", timer.Report().Phases)
	}
}

func TestScanFilesReportsUnreadable(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "gone.go")
	_, results, err := ScanFiles(context.Background(), dir, []string{missing}, Options{})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(results) != 1 || !errors.Is(results[0].Err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error in result, got %+v", results)
	}
	if results[0].Result.Buckets == nil {
		t.Fatal("failed result should still carry empty buckets")
	}
}

func TestScanFilesCanceled(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.go": "// TODO: a", "b.go": "// TODO: b"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	paths := []string{filepath.Join(dir, "a.go"), filepath.Join(dir, "b.go")}
	if _, _, err := ScanFiles(ctx, dir, paths, Options{Jobs: 1}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestScanTextAppliesOptions(t *testing.T) {
	text := "// TODO: low\r\n// TODO(P3): high\r\n// FIXME: a\r\n// FIXME: b\r\n"
	fileSet, res := ScanText("<stdin>", text, Options{MinBucket: rank.High, MaxFindings: 2})
	if len(res.Result.Ordered) != 2 {
		t.Fatalf("expected 2 findings after limit, got %d", len(res.Result.Ordered))
	}
	for _, e := range res.Result.Ordered {
		if e.Bucket.Weight() < rank.High.Weight() {
			t.Fatalf("entry below min bucket: %+v", e)
		}
	}
	file := fileSet.Get(res.FileID)
	if file.Line(1) != "// TODO(P3): high" {
		t.Fatalf("CRLF not normalized: %q", file.Line(1))
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingSink) OnEvent(evt Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func TestScanFilesReportsProgress(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.go":    "// FIXME: a\n// TODO: b\n",
		"bin.dat": "\x00",
	})
	sink := &recordingSink{}
	paths := []string{filepath.Join(dir, "a.go"), filepath.Join(dir, "bin.dat"), filepath.Join(dir, "gone.go")}
	if _, _, err := ScanFiles(context.Background(), dir, paths, Options{Progress: sink}); err != nil {
		t.Fatalf("scan: %v", err)
	}
	statuses := map[string][]Status{}
	for _, evt := range sink.events {
		statuses[filepath.Base(evt.File)] = append(statuses[filepath.Base(evt.File)], evt.Status)
		if evt.Status == StatusDone && evt.Findings != 2 {
			t.Fatalf("expected 2 findings in done event, got %d", evt.Findings)
		}
	}
	want := map[string][]Status{
		"a.go":    {StatusQueued, StatusWorking, StatusDone},
		"bin.dat": {StatusSkipped},
		"gone.go": {StatusError},
	}
	for name, w := range want {
		if !slices.Equal(statuses[name], w) {
			t.Fatalf("%s: expected %v, got %v", name, w, statuses[name])
		}
	}
}
