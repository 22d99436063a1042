package annotfmt

import (
	"encoding/json"
	"io"
	"unicode/utf8"

	"todohl/internal/annot"
	"todohl/internal/driver"
	"todohl/internal/rank"
	"todohl/internal/source"
)

const sarifSchema = "https://json.schemastore.org/sarif-2.1.0.json"

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID     string          `json:"ruleId"`
	Level      string          `json:"level"`
	Message    sarifMessage    `json:"message"`
	Locations  []sarifLocation `json:"locations"`
	Properties sarifProperties `json:"properties"`
}

type sarifProperties struct {
	Priority int    `json:"priority"`
	Bucket   string `json:"bucket"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
}

var sarifRules = []sarifRule{
	{ID: "todo", ShortDescription: sarifMessage{Text: "TODO annotation"}},
	{ID: "fixme", ShortDescription: sarifMessage{Text: "FIXME annotation"}},
}

// sarifLevel maps buckets onto SARIF levels.
func sarifLevel(b rank.Bucket) string {
	switch b {
	case rank.Fixme, rank.High:
		return "error"
	case rank.Medium:
		return "warning"
	default:
		return "note"
	}
}

// Sarif writes a SARIF 2.1.0 log with one result per finding. Columns are
// 1-based and counted in characters.
func Sarif(w io.Writer, fs *source.FileSet, results []driver.FileResult, tool ToolInfo) error {
	name := tool.Name
	if name == "" {
		name = "todohl"
	}
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:    name,
			Version: tool.Version,
			Rules:   sarifRules,
		}},
		Results: []sarifResult{},
	}
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		file := fs.Get(r.FileID)
		uri := fs.DisplayPath(file)
		for _, e := range r.Result.Ordered {
			line := file.Line(e.Line)
			col := max(annot.MarkerOffset(line), 0)
			ruleID := "todo"
			if e.Kind == annot.Fixme {
				ruleID = "fixme"
			}
			run.Results = append(run.Results, sarifResult{
				RuleID:  ruleID,
				Level:   sarifLevel(e.Bucket),
				Message: sarifMessage{Text: e.Label()},
				Locations: []sarifLocation{{
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: sarifArtifactLocation{URI: uri},
						Region: sarifRegion{
							StartLine:   e.Line + 1,
							StartColumn: utf8.RuneCountInString(line[:col]) + 1,
							EndLine:     e.Line + 1,
							EndColumn:   utf8.RuneCountInString(line) + 1,
						},
					},
				}},
				Properties: sarifProperties{Priority: e.Priority, Bucket: e.Bucket.String()},
			})
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sarifLog{Schema: sarifSchema, Version: "2.1.0", Runs: []sarifRun{run}})
}
