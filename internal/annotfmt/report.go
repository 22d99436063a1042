package annotfmt

import (
	"encoding/json"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"todohl/internal/driver"
	"todohl/internal/rank"
	"todohl/internal/source"
)

// Finding is one annotation in machine formats. Line is zero-based.
type Finding struct {
	Line      int    `json:"line" yaml:"line" msgpack:"line"`
	Priority  int    `json:"priority" yaml:"priority" msgpack:"priority"`
	Kind      string `json:"kind" yaml:"kind" msgpack:"kind"`
	Bucket    string `json:"bucket" yaml:"bucket" msgpack:"bucket"`
	Text      string `json:"text" yaml:"text" msgpack:"text"`
	Label     string `json:"label" yaml:"label" msgpack:"label"`
	StartByte uint32 `json:"start_byte" yaml:"start_byte" msgpack:"start_byte"`
	EndByte   uint32 `json:"end_byte" yaml:"end_byte" msgpack:"end_byte"`
}

// FileReport groups the findings of one file in global order.
type FileReport struct {
	Path     string    `json:"path" yaml:"path" msgpack:"path"`
	Hash     string    `json:"hash,omitempty" yaml:"hash,omitempty" msgpack:"hash,omitempty"`
	Error    string    `json:"error,omitempty" yaml:"error,omitempty" msgpack:"error,omitempty"`
	Findings []Finding `json:"findings" yaml:"findings" msgpack:"findings"`
}

// Report is the root of the JSON, YAML and MessagePack outputs.
type Report struct {
	Files   []FileReport   `json:"files" yaml:"files" msgpack:"files"`
	Count   int            `json:"count" yaml:"count" msgpack:"count"`
	Buckets map[string]int `json:"buckets" yaml:"buckets" msgpack:"buckets"`
}

// BuildReport converts scan results into the serializable report.
func BuildReport(fs *source.FileSet, results []driver.FileResult) Report {
	report := Report{
		Files:   make([]FileReport, 0, len(results)),
		Buckets: make(map[string]int, len(rank.Buckets)),
	}
	for b, n := range driver.Summary(results) {
		report.Buckets[b.String()] = n
	}
	for _, r := range results {
		fr := FileReport{Path: r.Path, Findings: []Finding{}}
		if r.Err != nil {
			fr.Error = r.Err.Error()
			report.Files = append(report.Files, fr)
			continue
		}
		file := fs.Get(r.FileID)
		fr.Path = fs.DisplayPath(file)
		fr.Hash = file.Hash.String()
		for _, e := range r.Result.Ordered {
			sp := file.LineSpan(e.Line)
			fr.Findings = append(fr.Findings, Finding{
				Line:      e.Line,
				Priority:  e.Priority,
				Kind:      e.Kind.String(),
				Bucket:    e.Bucket.String(),
				Text:      e.Text,
				Label:     e.Label(),
				StartByte: sp.Start,
				EndByte:   sp.End,
			})
		}
		report.Count += len(fr.Findings)
		report.Files = append(report.Files, fr)
	}
	return report
}

// JSON writes the report as indented JSON.
func JSON(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// YAML writes the report as a YAML document.
func YAML(w io.Writer, report Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}

// Msgpack writes the report as a single MessagePack value.
func Msgpack(w io.Writer, report Report) error {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	return enc.Encode(report)
}
