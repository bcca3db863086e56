package dsl

import "github.com/alecthomas/participle/v2/lexer"

// Lexer tokenizes goplan's textual fact/operator/problem format. Keywords
// ("fact", "operator", "requires", ...) are not distinct token types;
// like kanso's grammar, they are recognized as literal string matches
// against plain Ident tokens inside the grammar itself.
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Var", `\?[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Number", `-?[0-9]+(\.[0-9]+)?`, nil},
		{"String", `"(\\.|[^"])*"`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Punct", `[(){},.]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
