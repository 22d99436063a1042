package annotfmt

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"todohl/internal/driver"
	"todohl/internal/rank"
	"todohl/internal/render"
	"todohl/internal/source"
)

func scanSample(t *testing.T) (*source.FileSet, []driver.FileResult) {
	t.Helper()
	fs, res := driver.ScanText("sample.go", "package x\n\t// TODO(P2): refactor this\nx := 1 // FIXME: crash on null\n", driver.Options{})
	return fs, []driver.FileResult{res}
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(strings.ToUpper(string(f)))
		if err != nil || got != f {
			t.Fatalf("ParseFormat(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestPrettyPlain(t *testing.T) {
	fs, results := scanSample(t)
	var buf bytes.Buffer
	if err := Pretty(&buf, fs, results, Options{}); err != nil {
		t.Fatalf("pretty: %v", err)
	}
	want := strings.Join([]string{
		"sample.go:3:8: FIXME [P3] FIXME: crash on null",
		" 3 | x := 1 // FIXME: crash on null",
		"   |        ^" + strings.Repeat("~", 22),
		"sample.go:2:2: MEDIUM [P2] TODO: refactor this",
		" 2 |     // TODO(P2): refactor this",
		"   |     ^" + strings.Repeat("~", 25),
		"2 findings: 1 fixme, 0 high, 1 medium, 0 low",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("unexpected pretty output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrettyColorAndErrors(t *testing.T) {
	fs, results := scanSample(t)
	results = append(results, driver.FileResult{Path: "gone.go", Err: os.ErrNotExist})
	var buf bytes.Buffer
	if err := Pretty(&buf, fs, results, Options{Color: true}); err != nil {
		t.Fatalf("pretty: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "\x1b[") {
		t.Fatal("expected ANSI escapes with color enabled")
	}
	for _, b := range []rank.Bucket{rank.Fixme, rank.Medium} {
		if seq := "38;5;" + render.StyleFor(b).Color; !strings.Contains(out, seq) {
			t.Fatalf("expected %s painted with %q, got:\n%q", b, seq, out)
		}
	}
	if !strings.Contains(out, "gone.go") || !strings.Contains(out, "file does not exist") {
		t.Fatalf("expected error line, got:\n%s", out)
	}
}

func TestShort(t *testing.T) {
	fs, results := scanSample(t)
	var buf bytes.Buffer
	if err := Short(&buf, fs, results); err != nil {
		t.Fatalf("short: %v", err)
	}
	want := "sample.go:3: [P3] FIXME: crash on null\nsample.go:2: [P2] TODO: refactor this\n"
	if buf.String() != want {
		t.Fatalf("unexpected short output %q", buf.String())
	}
}

func TestReportFormatsAgree(t *testing.T) {
	fs, results := scanSample(t)
	report := BuildReport(fs, results)
	if report.Count != 2 || report.Buckets["fixme"] != 1 || report.Buckets["medium"] != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	first := report.Files[0].Findings[0]
	if first.Kind != "FIXME" || first.Line != 2 || first.Label != "[P3] FIXME: crash on null" {
		t.Fatalf("unexpected first finding: %+v", first)
	}
	if len(report.Files[0].Hash) != 64 {
		t.Fatalf("expected hex blake3 hash, got %q", report.Files[0].Hash)
	}

	var jsonBuf bytes.Buffer
	if err := JSON(&jsonBuf, report); err != nil {
		t.Fatalf("json: %v", err)
	}
	var fromJSON Report
	if err := json.Unmarshal(jsonBuf.Bytes(), &fromJSON); err != nil {
		t.Fatalf("decode json: %v", err)
	}

	var yamlBuf bytes.Buffer
	if err := YAML(&yamlBuf, report); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var fromYAML Report
	if err := yaml.Unmarshal(yamlBuf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}

	var mpBuf bytes.Buffer
	if err := Msgpack(&mpBuf, report); err != nil {
		t.Fatalf("msgpack: %v", err)
	}
	var fromMsgpack Report
	if err := msgpack.Unmarshal(mpBuf.Bytes(), &fromMsgpack); err != nil {
		t.Fatalf("decode msgpack: %v", err)
	}

	for name, got := range map[string]Report{"json": fromJSON, "yaml": fromYAML, "msgpack": fromMsgpack} {
		if got.Count != report.Count || len(got.Files) != 1 || got.Files[0].Findings[1] != report.Files[0].Findings[1] {
			t.Fatalf("%s report differs: %+v", name, got)
		}
	}
}

func TestReportKeepsFailedFiles(t *testing.T) {
	report := BuildReport(source.NewFileSet(), []driver.FileResult{{Path: "x.go", Err: errors.New("boom")}})
	if len(report.Files) != 1 || report.Files[0].Error != "boom" || report.Files[0].Findings == nil {
		t.Fatalf("unexpected report: %+v", report.Files)
	}
}

func TestSarif(t *testing.T) {
	fs, results := scanSample(t)
	var buf bytes.Buffer
	if err := Sarif(&buf, fs, results, ToolInfo{Version: "1.2.3"}); err != nil {
		t.Fatalf("sarif: %v", err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("decode sarif: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log header: %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "todohl" || run.Tool.Driver.Version != "1.2.3" {
		t.Fatalf("unexpected driver: %+v", run.Tool.Driver)
	}
	if len(run.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(run.Results))
	}
	fixme := run.Results[0]
	if fixme.RuleID != "fixme" || fixme.Level != "error" {
		t.Fatalf("unexpected fixme result: %+v", fixme)
	}
	region := fixme.Locations[0].PhysicalLocation.Region
	if region.StartLine != 3 || region.StartColumn != 8 {
		t.Fatalf("unexpected region: %+v", region)
	}
	if run.Results[1].Level != "warning" || run.Results[1].RuleID != "todo" {
		t.Fatalf("unexpected todo result: %+v", run.Results[1])
	}
}

func TestWriteDispatch(t *testing.T) {
	fs, results := scanSample(t)
	for _, f := range Formats {
		var buf bytes.Buffer
		if err := Write(&buf, f, fs, results, Options{}); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if buf.Len() == 0 {
			t.Fatalf("%s: empty output", f)
		}
	}
	if err := Write(&bytes.Buffer{}, Format("xml"), fs, results, Options{}); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestDisplayPathInReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "a.go")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("// TODO: x\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs, results, err := driver.ScanFiles(t.Context(), dir, []string{path}, driver.Options{})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if got := BuildReport(fs, results).Files[0].Path; got != "sub/a.go" {
		t.Fatalf("unexpected report path %q", got)
	}
}
