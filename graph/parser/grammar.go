package parser

import (
	"regexp"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/satishbabariya/migraph/graph/domain"
)

// downLexer tokenizes the right-hand side of a down_revision assignment.
var downLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "String", Pattern: `'[^'\n]*'|"[^"\n]*"`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.]*`},
	{Name: "Punct", Pattern: `[()\[\],]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// downValue is the parse tree of a down_revision literal.
type downValue struct {
	None   bool       `  @"None"`
	Tuple  *downTuple `| @@`
	Single *string    `| @String`
}

// downTuple accepts tuples and lists, with or without a trailing comma.
type downTuple struct {
	Items []string `("(" | "[") ( @String ","? )* (")" | "]")`
}

var downParser = participle.MustBuild[downValue](
	participle.Lexer(downLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.Map(stripQuotes, "String"),
)

func stripQuotes(tok lexer.Token) (lexer.Token, error) {
	if len(tok.Value) >= 2 {
		tok.Value = tok.Value[1 : len(tok.Value)-1]
	}
	return tok, nil
}

var quotedRe = regexp.MustCompile(`['"]([^'"]+)['"]`)

// parseDownValue turns the captured literal into a DownRevision. Values the
// grammar rejects fall back to picking quoted strings out of the text.
func parseDownValue(raw string) domain.DownRevision {
	v, err := downParser.ParseString("down_revision", raw)
	if err == nil {
		switch {
		case v.None:
			return domain.NoDownRevision()
		case v.Tuple != nil:
			return domain.MergeDownRevision(nonEmpty(v.Tuple.Items)...)
		case v.Single != nil && *v.Single != "":
			return domain.SingleDownRevision(*v.Single)
		}
		return domain.NoDownRevision()
	}

	if len(raw) > 0 && (raw[0] == '(' || raw[0] == '[') {
		var revs []string
		for _, m := range quotedRe.FindAllStringSubmatch(raw, -1) {
			revs = append(revs, m[1])
		}
		return domain.MergeDownRevision(revs...)
	}
	if m := quotedRe.FindStringSubmatch(raw); m != nil {
		return domain.SingleDownRevision(m[1])
	}
	return domain.NoDownRevision()
}

func nonEmpty(items []string) []string {
	out := items[:0:0]
	for _, it := range items {
		if it != "" {
			out = append(out, it)
		}
	}
	return out
}
