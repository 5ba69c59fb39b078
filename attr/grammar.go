// SPDX-License-Identifier: Apache-2.0
package attr

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// attributeLexer tokenizes the attribute-list grammar from §6.1:
//
//	atom       := '!'? word ('=' word)?
//	attr_list  := atom (',' atom)*
//
// Grounded on grammar.KansoLexer's lexer.MustSimple-style rule table.
var attributeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Bang", Pattern: `!`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Word", Pattern: `[^,=!\s]+`},
})

// atomNode is one parsed "!"? key ("=" value)? token.
type atomNode struct {
	Forbidden bool    `parser:"@Bang?"`
	Key       string  `parser:"@Word"`
	Value     *string `parser:"('=' @Word)?"`
}

// attributeListNode is a comma-separated list of atoms.
type attributeListNode struct {
	Atoms []*atomNode `parser:"@@ (',' @@)*"`
}

var attributeListParser = buildAttributeListParser()

func buildAttributeListParser() *participle.Parser[attributeListNode] {
	p, err := participle.Build[attributeListNode](
		participle.Lexer(attributeLexer),
		participle.Elide("Whitespace"),
	)
	if err != nil {
		panic(fmt.Errorf("attr: failed to build attribute-list parser: %w", err))
	}
	return p
}
