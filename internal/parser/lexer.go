package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer maps the raw string tokens out for our AST definitions. Ids may
// carry slashes (army ids like p1/home), dots and hyphens; keywords are
// matched by value against Ident tokens.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[a-zA-Z_][\w./-]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[:=,]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// Build creates our parser based on the struct tags in `ast.go`
func Build() *participle.Parser[Decision] {
	return participle.MustBuild[Decision](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace"),
	)
}
