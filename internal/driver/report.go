package driver

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"numtype/internal/diag"
	"numtype/internal/observ"
	"numtype/internal/source"
	"numtype/internal/version"
)

// Format selects how check results are written.
type Format string

const (
	FormatPretty  Format = "pretty"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPretty, FormatJSON, FormatMsgpack:
		return f, nil
	case "":
		return FormatPretty, nil
	}
	return "", fmt.Errorf("unsupported format %q (must be pretty, json or msgpack)", s)
}

// Report is the machine-readable form of a CheckResult.
type Report struct {
	Tool    string         `json:"tool" msgpack:"tool"`
	Version string         `json:"version" msgpack:"version"`
	Files   []FileReport   `json:"files" msgpack:"files"`
	Totals  Totals         `json:"totals" msgpack:"totals"`
	Timings *observ.Report `json:"timings,omitempty" msgpack:"timings,omitempty"`
}

type FileReport struct {
	Path        string             `json:"path" msgpack:"path"`
	Hash        string             `json:"hash,omitempty" msgpack:"hash,omitempty"`
	Cached      bool               `json:"cached,omitempty" msgpack:"cached,omitempty"`
	Error       string             `json:"error,omitempty" msgpack:"error,omitempty"`
	Results     []ResultReport     `json:"results" msgpack:"results"`
	Diagnostics []DiagnosticReport `json:"diagnostics" msgpack:"diagnostics"`
}

type ResultReport struct {
	Line     uint32   `json:"line" msgpack:"line"`
	Verb     string   `json:"verb" msgpack:"verb"`
	Flags    []string `json:"flags,omitempty" msgpack:"flags,omitempty"`
	Scope    string   `json:"scope,omitempty" msgpack:"scope,omitempty"`
	Operands []string `json:"operands" msgpack:"operands"`
	Op       string   `json:"op,omitempty" msgpack:"op,omitempty"`
	Value    string   `json:"value,omitempty" msgpack:"value,omitempty"`
	Detail   string   `json:"detail,omitempty" msgpack:"detail,omitempty"`
	Expect   string   `json:"expect,omitempty" msgpack:"expect,omitempty"`
	Mark     string   `json:"mark" msgpack:"mark"`
}

type DiagnosticReport struct {
	Severity string       `json:"severity" msgpack:"severity"`
	Code     string       `json:"code" msgpack:"code"`
	Message  string       `json:"message" msgpack:"message"`
	Line     uint32       `json:"line" msgpack:"line"`
	Column   uint32       `json:"column" msgpack:"column"`
	Notes    []NoteReport `json:"notes,omitempty" msgpack:"notes,omitempty"`
}

type NoteReport struct {
	Line    uint32 `json:"line" msgpack:"line"`
	Column  uint32 `json:"column" msgpack:"column"`
	Message string `json:"message" msgpack:"message"`
}

// BuildReport converts res; timings may be nil.
func BuildReport(res *CheckResult, timings *observ.Report) Report {
	rep := Report{
		Tool:    "numtype",
		Version: version.Version,
		Files:   make([]FileReport, 0, len(res.Files)),
		Totals:  res.Totals(),
		Timings: timings,
	}
	for _, f := range res.Files {
		fr := FileReport{Path: f.Path, Cached: f.Cached, Results: []ResultReport{}, Diagnostics: []DiagnosticReport{}}
		if f.Err != nil {
			fr.Error = f.Err.Error()
			rep.Files = append(rep.Files, fr)
			continue
		}
		fr.Hash = fmt.Sprintf("%016x", res.FileSet.Get(f.FileID).Hash)
		for _, r := range f.Results {
			fr.Results = append(fr.Results, resultReport(r))
		}
		if f.Bag != nil {
			for _, d := range f.Bag.Items() {
				fr.Diagnostics = append(fr.Diagnostics, diagnosticReport(res.FileSet, d))
			}
		}
		rep.Files = append(rep.Files, fr)
	}
	return rep
}

func resultReport(r Result) ResultReport {
	out := ResultReport{
		Line:     r.Line,
		Verb:     r.Verb.String(),
		Scope:    r.Scope,
		Operands: r.Operands,
		Op:       r.Op,
		Value:    r.Value,
		Detail:   r.Detail,
		Expect:   r.Expect,
		Mark:     r.Mark.String(),
	}
	out.Flags = r.Flags.Names()
	if out.Operands == nil {
		out.Operands = []string{}
	}
	return out
}

func diagnosticReport(fs *source.FileSet, d diag.Diagnostic) DiagnosticReport {
	loc, _ := diag.Resolve(fs, d.Primary)
	out := DiagnosticReport{
		Severity: d.Severity.Label(),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Line:     loc.Line,
		Column:   loc.Column,
	}
	for _, n := range d.Notes {
		nloc, _ := diag.Resolve(fs, n.Span)
		out.Notes = append(out.Notes, NoteReport{Line: nloc.Line, Column: nloc.Column, Message: n.Msg})
	}
	return out
}

// WriteJSON writes rep as indented JSON.
func WriteJSON(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// WriteMsgpack writes rep as a single msgpack document using the msgpack
// struct tags.
func WriteMsgpack(w io.Writer, rep Report) error {
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	return enc.Encode(rep)
}
