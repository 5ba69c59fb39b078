// SPDX-License-Identifier: Apache-2.0

// Package persistlog reads and writes the append-only resume log (§6.4): a
// record of which steps have actually run against the real target, plus a
// trailing snapshot of the simulated AttributeSet, so a collaborator CLI
// can recover "where we were" after a crash or a deliberate quit. Grounded
// on the teacher's repl package's bufio-based line scanning style
// (repl/repl.go), adapted here to a file instead of stdin.
package persistlog

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"stepplan/attr"
)

// Flag is the single-character run-outcome marker in a log line.
type Flag byte

const (
	// FlagScriptExecuted marks a step whose script ran to completion.
	FlagScriptExecuted Flag = 's'
	// FlagFailure marks a step the collaborator itself judged failed.
	FlagFailure Flag = 'f'
	// FlagFailureViaEditor marks a step an interactive editor session
	// judged failed.
	FlagFailureViaEditor Flag = 'F'
)

// Entry is one completed-step record: `short_desc:epoch_secs:flags:note`.
type Entry struct {
	Short string
	Epoch int64
	Flags string
	Note  string
}

// Log is the parsed result of reading a resume log: the ordered entries
// recorded, plus the final state snapshot (if the log ended with one).
type Log struct {
	Entries  []Entry
	State    attr.AttributeSet
	HasState bool
}

// Sanitize replaces the two characters that would otherwise corrupt the
// line-oriented format: "\n" becomes "\\n" and "\t" becomes "\\t" (§6.4).
// A literal backslash is first doubled to "\\\\", so that unsanitize can
// tell an escaped newline or tab from note text that already held one.
func Sanitize(note string) string {
	note = strings.ReplaceAll(note, "\\", "\\\\")
	note = strings.ReplaceAll(note, "\n", "\\n")
	note = strings.ReplaceAll(note, "\t", "\\t")
	return note
}

func unsanitize(note string) string {
	var b strings.Builder
	for i := 0; i < len(note); i++ {
		if note[i] == '\\' && i+1 < len(note) {
			switch note[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case 't':
				b.WriteByte('\t')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(note[i])
	}
	return b.String()
}

// AppendEntry opens path for append (creating it if absent) and writes one
// sanitized entry line.
func AppendEntry(path string, e Entry) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("persistlog: open %q: %w", path, err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s:%d:%s:%s\n", e.Short, e.Epoch, e.Flags, Sanitize(e.Note))
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("persistlog: write %q: %w", path, err)
	}
	return nil
}

// AppendState opens path for append and writes the ":state_dump" line
// recording state's current textual rendering.
func AppendState(path string, state attr.AttributeSet) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("persistlog: open %q: %w", path, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, ":%s\n", state.String()); err != nil {
		return fmt.Errorf("persistlog: write %q: %w", path, err)
	}
	return nil
}

// Read parses path, an append-only resume log, recovering the already-run
// step identifiers and the last recorded simulated state. A missing file
// is not an error: it is read back as an empty, state-free Log, the
// expected condition on a first run.
func Read(path string) (*Log, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return &Log{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("persistlog: open %q: %w", path, err)
	}
	defer f.Close()

	log := &Log{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			state, err := attr.Parse(line[1:])
			if err != nil {
				return nil, fmt.Errorf("persistlog: %q: bad state dump: %w", path, err)
			}
			log.State = state
			log.HasState = true
			continue
		}

		entry, err := parseEntry(line)
		if err != nil {
			return nil, fmt.Errorf("persistlog: %q: %w", path, err)
		}
		log.Entries = append(log.Entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("persistlog: read %q: %w", path, err)
	}
	return log, nil
}

func parseEntry(line string) (Entry, error) {
	parts := strings.SplitN(line, ":", 4)
	if len(parts) != 4 {
		return Entry{}, fmt.Errorf("malformed entry line %q", line)
	}
	epoch, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("malformed epoch in %q: %w", line, err)
	}
	return Entry{
		Short: parts[0],
		Epoch: epoch,
		Flags: parts[2],
		Note:  unsanitize(parts[3]),
	}, nil
}

// CompletedShorts returns the set of step Shorts recorded as having run,
// in the order they first appear.
func (l *Log) CompletedShorts() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range l.Entries {
		if !seen[e.Short] {
			seen[e.Short] = true
			out = append(out, e.Short)
		}
	}
	return out
}
