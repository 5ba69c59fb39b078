// SPDX-License-Identifier: Apache-2.0
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"stepplan/internal/stepls"
)

const lsName = "stepplan"

var version = "0.1.0"

func main() {
	commonlog.Configure(1, nil)

	h := stepls.NewHandler()
	handler := protocol.Handler{
		Initialize:            h.Initialize,
		Initialized:           h.Initialized,
		Shutdown:              h.Shutdown,
		TextDocumentDidOpen:   h.TextDocumentDidOpen,
		TextDocumentDidChange: h.TextDocumentDidChange,
		TextDocumentDidClose:  h.TextDocumentDidClose,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Println("Starting stepplan LSP server...")
	if err := s.RunStdio(); err != nil {
		log.Println("Error starting stepplan LSP server:", err)
		os.Exit(1)
	}
}
