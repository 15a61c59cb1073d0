package token

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	apperrors "github.com/louisbranch/dicetower/internal/platform/errors"
)

// Token is one scanned span of input.
type Token struct {
	Kind Kind
	// Raw is the matched text. Description tokens are trimmed.
	Raw string
	// Captures holds the pattern's submatches; Captures[0] is Raw.
	Captures []string
	// Pos is the byte offset of Raw in the input.
	Pos int
}

// Capture returns submatch i, or "" when the group did not participate.
func (t Token) Capture(i int) string {
	if i < 0 || i >= len(t.Captures) {
		return ""
	}
	return t.Captures[i]
}

// Compiled is a validated table ready for scanning. It is safe for
// concurrent use.
type Compiled struct {
	def   *lexer.StatefulDefinition
	names map[lexer.TokenType]string
	exprs map[Kind]*regexp.Regexp
	kinds []Kind
}

// Compile validates the table and builds its scanner. Every kind listed in
// required must be present, every expression must compile, and no
// expression may match empty text.
func Compile(table Table, required ...Kind) (*Compiled, error) {
	for _, kind := range required {
		if !table.Has(kind) {
			return nil, apperrors.WithMetadata(apperrors.CodePatternMissing,
				fmt.Sprintf("pattern table is missing %q", kind),
				map[string]string{"kind": string(kind)})
		}
	}

	compiled := &Compiled{
		names: map[lexer.TokenType]string{},
		exprs: map[Kind]*regexp.Regexp{},
	}
	rules := make([]lexer.SimpleRule, 0, len(table.patterns)+2)
	for _, pattern := range table.patterns {
		name := string(pattern.Kind)
		switch {
		case name == "":
			return nil, apperrors.New(apperrors.CodePatternTableInvalid, "pattern kind is required")
		case pattern.Kind == KindDescription, name == ruleText, name == ruleWhitespace:
			return nil, apperrors.WithMetadata(apperrors.CodePatternTableInvalid,
				fmt.Sprintf("pattern kind %q is reserved", name),
				map[string]string{"kind": name})
		}
		if _, dup := compiled.exprs[pattern.Kind]; dup {
			return nil, apperrors.WithMetadata(apperrors.CodePatternTableInvalid,
				fmt.Sprintf("pattern kind %q defined twice", name),
				map[string]string{"kind": name})
		}
		re, err := regexp.Compile("^(?:" + pattern.Expr + ")")
		if err != nil {
			return nil, &apperrors.Error{
				Code:     apperrors.CodePatternCompileFailed,
				Message:  fmt.Sprintf("compile %q pattern", name),
				Metadata: map[string]string{"kind": name},
				Cause:    err,
			}
		}
		if re.MatchString("") {
			return nil, apperrors.WithMetadata(apperrors.CodePatternMatchesEmpty,
				fmt.Sprintf("pattern %q matches empty text", name),
				map[string]string{"kind": name})
		}
		compiled.exprs[pattern.Kind] = re
		compiled.kinds = append(compiled.kinds, pattern.Kind)
		rules = append(rules, lexer.SimpleRule{Name: ruleName(name), Pattern: pattern.Expr})
	}
	rules = append(rules,
		lexer.SimpleRule{Name: ruleName(ruleWhitespace), Pattern: `\s+`},
		lexer.SimpleRule{Name: ruleName(ruleText), Pattern: `\p{L}+|(?s).`},
	)

	def, err := lexer.NewSimple(rules)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePatternTableInvalid, "build scanner", err)
	}
	compiled.def = def
	for name, tokenType := range def.Symbols() {
		if kind, ok := strings.CutPrefix(name, rulePrefix); ok {
			compiled.names[tokenType] = kind
		}
	}
	return compiled, nil
}

// rulePrefix keeps rule names capitalised: the lexer elides tokens from
// rules whose name starts with a lowercase letter.
const rulePrefix = "K"

func ruleName(kind string) string {
	return rulePrefix + kind
}

// MustCompile is Compile that panics on error. Useful for package-level tables.
func MustCompile(table Table, required ...Kind) *Compiled {
	compiled, err := Compile(table, required...)
	if err != nil {
		panic(err)
	}
	return compiled
}

// Kinds returns the table's kinds in match order.
func (c *Compiled) Kinds() []Kind {
	return append([]Kind(nil), c.kinds...)
}

// Tokenize scans text into tokens. It never fails: spans that match no
// pattern are merged into description tokens and whitespace between
// matched tokens is dropped.
func (c *Compiled) Tokenize(text string) []Token {
	var (
		out       []Token
		descStart = -1
		descEnd   = -1
	)
	flush := func() {
		if descStart < 0 {
			return
		}
		raw := strings.TrimSpace(text[descStart:descEnd])
		if raw != "" {
			out = append(out, Token{Kind: KindDescription, Raw: raw, Captures: []string{raw}, Pos: descStart})
		}
		descStart, descEnd = -1, -1
	}

	lex, err := c.def.LexString("", text)
	if err != nil {
		return c.describeRest(text, 0)
	}
	for {
		tok, err := lex.Next()
		if err != nil {
			flush()
			return append(out, c.describeRest(text, restOffset(out, text))...)
		}
		if tok.EOF() {
			break
		}
		start := tok.Pos.Offset
		end := start + len(tok.Value)
		switch c.names[tok.Type] {
		case ruleText:
			if descStart < 0 {
				descStart = start
			}
			descEnd = end
			continue
		case ruleWhitespace:
			if descStart >= 0 {
				descEnd = end
			}
			continue
		}
		flush()
		kind := Kind(c.names[tok.Type])
		captures := c.exprs[kind].FindStringSubmatch(tok.Value)
		if captures == nil {
			captures = []string{tok.Value}
		}
		out = append(out, Token{Kind: kind, Raw: tok.Value, Captures: captures, Pos: start})
	}
	flush()
	return out
}

func (c *Compiled) describeRest(text string, from int) []Token {
	raw := strings.TrimSpace(text[from:])
	if raw == "" {
		return nil
	}
	return []Token{{Kind: KindDescription, Raw: raw, Captures: []string{raw}, Pos: from}}
}

func restOffset(tokens []Token, text string) int {
	if len(tokens) == 0 {
		return 0
	}
	last := tokens[len(tokens)-1]
	end := last.Pos + len(last.Raw)
	if end > len(text) {
		return len(text)
	}
	return end
}
