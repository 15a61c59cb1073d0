// Package ladder resolves shift-based outcome categories.
//
// A ladder is a fixed, ordered list of categories running from automatic
// failure, through increasingly large skill dice, to automatic success.
// Shifting walks the list by a signed number of steps and clamps at both
// ends.
package ladder

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is one rung on the ladder.
type Category string

// Categories in ladder order.
const (
	Fumble   Category = "fumble"
	Fail     Category = "fail"
	D20      Category = "d20"
	D2       Category = "d2"
	D4       Category = "d4"
	D6       Category = "d6"
	D8       Category = "d8"
	D10      Category = "d10"
	D12      Category = "d12"
	TwoD8    Category = "2d8"
	ThreeD6  Category = "3d6"
	Success  Category = "success"
	Critical Category = "critical"
)

var order = []Category{Fumble, Fail, D20, D2, D4, D6, D8, D10, D12, TwoD8, ThreeD6, Success, Critical}

var dice = map[Category][2]int{
	D20:     {1, 20},
	D2:      {1, 2},
	D4:      {1, 4},
	D6:      {1, 6},
	D8:      {1, 8},
	D10:     {1, 10},
	D12:     {1, 12},
	TwoD8:   {2, 8},
	ThreeD6: {3, 6},
}

// Categories returns the ladder in order.
func Categories() []Category {
	return append([]Category(nil), order...)
}

// Index returns the rung of c, or -1.
func Index(c Category) int {
	for i, candidate := range order {
		if candidate == c {
			return i
		}
	}
	return -1
}

// Parse resolves a category name case-insensitively.
func Parse(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if Index(c) < 0 {
		return "", false
	}
	return c, true
}

// Rollable reports whether c is a die rather than an automatic outcome.
func (c Category) Rollable() bool {
	_, ok := dice[c]
	return ok
}

// Die returns the dice count and sides for a rollable category.
func (c Category) Die() (count, sides int, ok bool) {
	d, ok := dice[c]
	return d[0], d[1], ok
}

// Below returns the rollable skill dice from d2 up to and including c.
// d20 and non-rollable categories have none.
func (c Category) Below() []Category {
	top := Index(c)
	if !c.Rollable() || c == D20 {
		return nil
	}
	var out []Category
	for i := Index(D2); i <= top; i++ {
		out = append(out, order[i])
	}
	return out
}

// Direction is the sign of a net shift.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionUp
	DirectionDown
)

// Arrow returns the glyph used to annotate the direction.
func (d Direction) Arrow() string {
	switch d {
	case DirectionUp:
		return "↑"
	case DirectionDown:
		return "↓"
	default:
		return ""
	}
}

// Result describes a resolved shift.
type Result struct {
	Start     Category
	Shifted   Category
	Direction Direction
	// Magnitude is the absolute net shift requested, before clamping.
	Magnitude int
	Rollable  bool
	Count     int
	Sides     int
}

// Arrow returns the direction glyph.
func (r Result) Arrow() string {
	return r.Direction.Arrow()
}

// String renders the shift, e.g. "d4↑2=d8".
func (r Result) String() string {
	if r.Direction == DirectionNone {
		return string(r.Shifted)
	}
	return fmt.Sprintf("%s%s%d=%s", r.Start, r.Arrow(), r.Magnitude, r.Shifted)
}

// Shift walks the ladder from start by the sum of shifts, clamping at both
// ends. An unknown start category is returned unchanged and not rollable.
func Shift(start Category, shifts ...int) Result {
	net := 0
	for _, s := range shifts {
		net += s
	}
	result := Result{Start: start, Shifted: start, Magnitude: abs(net)}
	switch {
	case net > 0:
		result.Direction = DirectionUp
	case net < 0:
		result.Direction = DirectionDown
	}

	at := Index(start)
	if at < 0 {
		return result
	}
	at = min(max(at+net, 0), len(order)-1)
	result.Shifted = order[at]
	result.Count, result.Sides, result.Rollable = result.Shifted.Die()
	return result
}

// ShiftDie is Shift over textual input: a category name and signed shift
// strings such as "+1", "-100" or "+0".
func ShiftDie(start string, shifts []string) (Result, error) {
	category, ok := Parse(start)
	if !ok {
		return Result{}, fmt.Errorf("unknown ladder category %q", start)
	}
	values := make([]int, 0, len(shifts))
	for _, raw := range shifts {
		value, err := ParseShift(raw)
		if err != nil {
			return Result{}, err
		}
		values = append(values, value)
	}
	return Shift(category, values...), nil
}

// ParseShift parses one signed shift. Arrow glyphs count as one step each
// unless followed by a number: "↑", "↑↑", "↓3", "+2", "-1".
func ParseShift(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	if strings.ContainsAny(s, "↑↓") {
		total := 0
		for _, step := range splitArrows(s) {
			total += step
		}
		return total, nil
	}
	value, err := strconv.Atoi(strings.TrimPrefix(s, "+"))
	if err != nil {
		return 0, fmt.Errorf("parse shift %q: %w", raw, err)
	}
	return value, nil
}

func splitArrows(s string) []int {
	var (
		steps  []int
		sign   int
		digits strings.Builder
	)
	emit := func() {
		if sign == 0 {
			return
		}
		n := 1
		if digits.Len() > 0 {
			n, _ = strconv.Atoi(digits.String())
		}
		steps = append(steps, sign*n)
		digits.Reset()
	}
	for _, r := range s {
		switch {
		case r == '↑':
			emit()
			sign = 1
		case r == '↓':
			emit()
			sign = -1
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		}
	}
	emit()
	return steps
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
