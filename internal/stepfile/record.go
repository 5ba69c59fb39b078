// SPDX-License-Identifier: Apache-2.0

// Package stepfile reads the line-oriented step-record text format (§6.1)
// and builds a step.Store from it, in the spirit of the teacher
// compiler's internal/parser/scanner.go: a hand-rolled, line-at-a-time
// scanner that tracks Position for every diagnostic it raises.
package stepfile

import (
	"fmt"
	"strconv"
	"strings"

	"stepplan/attr"
	"stepplan/internal/diag"
	"stepplan/step"
)

// knownKeys is the accepted key set (§6.1). Anything else is reported to
// the diagnostic sink and ignored, never treated as a hard parse failure.
var knownKeys = map[string]bool{
	"short":        true,
	"description":  true,
	"dependencies": true,
	"requirements": true,
	"changes":      true,
	"cost":         true,
	"required":     true,
	"script":       true,
}

// ParseError reports a malformed step record: a bad integer cost or a
// malformed attribute list, tagged with the offending line (§7).
type ParseError struct {
	Filename string
	Line     int
	Message  string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("stepfile: %s:%d: %s", e.Filename, e.Line, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Diagnostic converts e into an error-level diag.Diagnostic positioned at
// column 1 of the offending line.
func (e *ParseError) Diagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Level:    diag.LevelError,
		Message:  e.Message,
		Position: diag.Position{Filename: e.Filename, Line: e.Line, Column: 1},
	}
}

// record is the raw field collection for one step, before conversion to a
// step.TestStep.
type record struct {
	short        string
	description  string
	dependencies string
	changes      string
	cost         string
	required     string
	script       string
	line         int
}

// Parse reads a single step-record file's text and returns the step it
// describes. Unknown keys are reported through sink and otherwise ignored;
// they never abort the parse.
func Parse(filename, text string, sink func(diag.Diagnostic)) (*step.TestStep, error) {
	rec, err := scanRecord(filename, text, sink)
	if err != nil {
		return nil, err
	}
	return rec.toStep(filename)
}

// scanRecord walks text line by line, assembling a record. A value of a
// bare ":" opens a multi-line block, collected up to a line containing
// only ".".
func scanRecord(filename, text string, sink func(diag.Diagnostic)) (*record, error) {
	rec := &record{}
	lines := strings.Split(text, "\n")

	for i := 0; i < len(lines); i++ {
		lineNo := i + 1
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}

		key, value, ok := splitKeyValue(line)
		if !ok {
			return nil, &ParseError{Filename: filename, Line: lineNo, Message: fmt.Sprintf("malformed line %q, expected \"key:value\"", line)}
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if !knownKeys[key] {
			if sink != nil {
				sink(diag.Diagnostic{
					Level:    diag.LevelWarn,
					Message:  fmt.Sprintf("unknown key %q ignored", key),
					Position: diag.Position{Filename: filename, Line: lineNo, Column: 1},
				})
			}
			continue
		}

		if value == ":" {
			block, consumed := scanBlock(lines, i+1)
			value = block
			i = consumed
		}

		switch key {
		case "short":
			rec.short = value
			rec.line = lineNo
		case "description":
			rec.description = value
		case "dependencies", "requirements":
			rec.dependencies = value
		case "changes":
			rec.changes = value
		case "cost":
			rec.cost = value
		case "required":
			rec.required = value
		case "script":
			rec.script = value
		}
	}

	return rec, nil
}

// scanBlock collects lines from start until a line containing only "."
// (exclusive), joined with "\n". Empty intermediate lines are preserved.
// It returns the block text and the index of the terminating "." line (or
// the last line index if the block runs off the end of the file).
func scanBlock(lines []string, start int) (string, int) {
	var collected []string
	i := start
	for ; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "." {
			return strings.Join(collected, "\n"), i
		}
		collected = append(collected, lines[i])
	}
	return strings.Join(collected, "\n"), i - 1
}

// splitKeyValue splits a "key:value" line on the first colon.
func splitKeyValue(line string) (key, value string, ok bool) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return "", "", false
	}
	return line[:idx], line[idx+1:], true
}

// toStep converts a fully-scanned record into a step.TestStep, parsing its
// attribute lists and cost.
func (r *record) toStep(filename string) (*step.TestStep, error) {
	if r.short == "" {
		return nil, &ParseError{Filename: filename, Line: r.line, Message: "step record missing required \"short\" field"}
	}

	deps, err := attr.Parse(r.dependencies)
	if err != nil {
		return nil, &ParseError{Filename: filename, Line: r.line, Message: fmt.Sprintf("invalid dependencies list: %v", err), Err: err}
	}
	changes, err := attr.Parse(r.changes)
	if err != nil {
		return nil, &ParseError{Filename: filename, Line: r.line, Message: fmt.Sprintf("invalid changes list: %v", err), Err: err}
	}

	cost := uint32(0)
	if r.cost != "" {
		n, err := strconv.ParseUint(r.cost, 10, 32)
		if err != nil {
			return nil, &ParseError{Filename: filename, Line: r.line, Message: fmt.Sprintf("invalid cost %q: must be a non-negative integer", r.cost), Err: err}
		}
		cost = uint32(n)
	}

	required := parseBool(r.required)

	return step.New(r.short, r.description, r.script, cost, required, step.Operation{
		Dependencies: deps,
		Changes:      changes,
	}), nil
}

// parseBool implements §6.1's boolean rule: "1"/"true"/"yes" (case
// insensitive) are true, anything else is false.
func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
