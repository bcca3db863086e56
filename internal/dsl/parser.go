// Package dsl implements a small textual format for declaring facts,
// operator schemas, and planning problems, parsed with participle/v2's
// stateful lexer and struct-tag grammar, following the same
// participle.Build/Lexer/Elide/UseLookahead construction kanso-lang's
// grammar package uses for its own language.
package dsl

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
)

var parser = buildParser()

func buildParser() *participle.Parser[Document] {
	p, err := participle.Build[Document](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(3),
	)
	if err != nil {
		panic(fmt.Errorf("dsl: failed to build parser: %w", err))
	}
	return p
}

// ParseString parses source text, identified by name for error messages.
func ParseString(name, source string) (*Document, error) {
	doc, err := parser.ParseString(name, source)
	if err != nil {
		return nil, fmt.Errorf("dsl: %w", err)
	}
	return doc, nil
}

// ParseFile reads and parses a source file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dsl: failed to read %s: %w", path, err)
	}
	return ParseString(path, string(data))
}
