// SPDX-License-Identifier: Apache-2.0
package stepls

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"stepplan/internal/diag"
)

// toProtocolDiagnostics converts diag.Diagnostics to LSP wire diagnostics,
// adapted from the teacher's ConvertParseErrors (internal/lsp/diagnostics.go).
func toProtocolDiagnostics(diagnostics []diag.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		line := d.Position.Line - 1
		if line < 0 {
			line = 0
		}
		col := d.Position.Column - 1
		if col < 0 {
			col = 0
		}
		length := uint32(d.Length)
		if length == 0 {
			length = 4
		}

		out = append(out, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: uint32(line), Character: uint32(col)},
				End:   protocol.Position{Line: uint32(line), Character: uint32(col) + length},
			},
			Severity: ptrSeverity(severityFor(d.Level)),
			Source:   ptrString("stepplan"),
			Message:  d.Message,
		})
	}
	return out
}

func severityFor(level diag.Level) protocol.DiagnosticSeverity {
	switch level {
	case diag.LevelError:
		return protocol.DiagnosticSeverityError
	case diag.LevelWarn:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }

func ptrString(s string) *string { return &s }
