// Package token scans dice expressions into a token stream using an ordered,
// per-system pattern table.
//
// Patterns are tried in table order at each scan position and the first
// match wins; longer matches further down the table never take precedence.
// Narrow patterns must therefore be placed before broad ones. Text that no
// pattern matches becomes a free-text description token.
package token

import "slices"

// Kind names a token pattern.
type Kind string

// Shared kinds every system table starts from.
const (
	KindQuotes   Kind = "quotes"
	KindDice     Kind = "dice"
	KindDropKeep Kind = "dropkeep"
	KindMod      Kind = "mod"
	KindTarget   Kind = "target"
	// KindSeparator closes the current Dice.
	KindSeparator Kind = "separator"

	// KindDescription is produced by the scanner for unmatched text.
	KindDescription Kind = "description"
)

// Reserved rule names appended to every compiled table.
const (
	ruleWhitespace = "whitespace"
	ruleText       = "text"
)

// Pattern binds a kind to a regular expression.
type Pattern struct {
	Kind Kind
	Expr string
}

// Table is an ordered kind→pattern list. The zero value is an empty table.
type Table struct {
	patterns []Pattern
}

// NewTable creates a table from patterns in order.
func NewTable(patterns ...Pattern) Table {
	return Table{patterns: slices.Clone(patterns)}
}

// Base returns the grammar shared by every system:
// <sign><count>d<sides><dropKeep><modifierOps><target><description>,
// with ";" separating rolls.
func Base() Table {
	return NewTable(
		Pattern{Kind: KindQuotes, Expr: "\"[^\"]*\"|“[^”]*”|`[^`]*`"},
		Pattern{Kind: KindDice, Expr: `(?i)(?:([-+])\s*)?(\d*)d(\d+)`},
		Pattern{Kind: KindDropKeep, Expr: `(?i)(dl|dh|kl|kh)\s*(\d*)\b`},
		Pattern{Kind: KindMod, Expr: `([-+])\s*(\d+)`},
		Pattern{Kind: KindTarget, Expr: `(?i)(gte|gt|lte|lt|eq|>=|<=|>|<|=)\s*(\d+|\|\|\d+\|\|)`},
		Pattern{Kind: KindSeparator, Expr: `;`},
	)
}

// Patterns returns a copy of the table's patterns in order.
func (t Table) Patterns() []Pattern {
	return slices.Clone(t.patterns)
}

// Clone returns an independent copy of the table.
func (t Table) Clone() Table {
	return NewTable(t.patterns...)
}

// Index returns the position of kind, or -1.
func (t Table) Index(kind Kind) int {
	return slices.IndexFunc(t.patterns, func(p Pattern) bool { return p.Kind == kind })
}

// Has reports whether kind is defined.
func (t Table) Has(kind Kind) bool {
	return t.Index(kind) >= 0
}

// InsertBefore places patterns immediately before kind. When kind is not in
// the table the patterns are appended.
func (t *Table) InsertBefore(kind Kind, patterns ...Pattern) {
	at := t.Index(kind)
	if at < 0 {
		t.Append(patterns...)
		return
	}
	t.patterns = slices.Insert(t.patterns, at, patterns...)
}

// Override replaces the expression for kind in place, keeping its position.
// Unknown kinds are appended.
func (t *Table) Override(kind Kind, expr string) {
	at := t.Index(kind)
	if at < 0 {
		t.Append(Pattern{Kind: kind, Expr: expr})
		return
	}
	t.patterns[at].Expr = expr
}

// Append adds patterns at the end of the table.
func (t *Table) Append(patterns ...Pattern) {
	t.patterns = append(t.patterns, patterns...)
}

// Remove deletes kind from the table.
func (t *Table) Remove(kind Kind) {
	t.patterns = slices.DeleteFunc(t.patterns, func(p Pattern) bool { return p.Kind == kind })
}
