package dice

import (
	"strconv"
	"strings"

	"golang.org/x/text/message"

	"github.com/louisbranch/dicetower/internal/dice/ladder"
	"github.com/louisbranch/dicetower/internal/platform/i18n/catalog"
)

// Mode selects the output layout.
type Mode int

const (
	// ModeCompact joins lines with "; ".
	ModeCompact Mode = iota
	// ModeVerbose puts each line on its own row and names the grade.
	ModeVerbose
)

// Glyphs maps grades to the marker that opens a line.
type Glyphs struct {
	Grades map[Grade]string
	// Fixed marks non-rollable ladder outcomes.
	Fixed string
}

// DefaultGlyphs returns the standard markers.
func DefaultGlyphs() Glyphs {
	return Glyphs{
		Grades: map[Grade]string{
			GradeUnknown:         "🎲",
			GradeCriticalSuccess: "⭐",
			GradeSuccess:         "✔",
			GradeFailure:         "✘",
			GradeCriticalFailure: "💀",
		},
		Fixed: "◆",
	}
}

const (
	valuesArrow = "⟵"
	strike      = "~~"
)

var labelKeys = map[string]string{
	LabelFortune:    "dice.label.fortune",
	LabelMisfortune: "dice.label.misfortune",
	LabelCrit:       "dice.label.crit",
	LabelStriking:   "dice.label.striking",
	LabelDeadly:     "dice.label.deadly",
	LabelFatal:      "dice.label.fatal",
}

// Renderer turns graded rolls into annotated text.
type Renderer struct {
	Mode    Mode
	Glyphs  Glyphs
	Printer *message.Printer
}

// NewRenderer builds a renderer for locale with the default glyphs.
func NewRenderer(mode Mode, locale string) Renderer {
	return Renderer{
		Mode:    mode,
		Glyphs:  DefaultGlyphs(),
		Printer: catalog.Default().Printer(locale),
	}
}

// Render renders every visible line of the group.
func (r Renderer) Render(roll DiceGroupRoll) string {
	var out []string
	for _, line := range roll.Lines() {
		if line.Visibility == VisibilitySuppressed {
			continue
		}
		out = append(out, r.RenderLine(roll.Rolls[line.Index], line))
	}
	sep := "; "
	if r.Mode == ModeVerbose {
		sep = "\n"
	}
	return strings.Join(out, sep)
}

// RenderLine renders one roll, e.g. "✔ 19 Strike vs AC 18 ⟵ [11]1d20 + 8".
func (r Renderer) RenderLine(roll DiceRoll, line Line) string {
	redacted := line.Visibility != VisibilityShown
	var fields []string

	if lr := roll.Ladder(); lr != nil && !roll.Rollable() {
		fields = append(fields, r.glyphs().Fixed, r.ladderLabel(lr.Result.Shifted))
	} else {
		glyph := r.glyphs().Grades[line.Grade]
		total := strconv.Itoa(roll.Total())
		if redacted {
			total = r.text("dice.label.redacted", "??")
		}
		fields = append(fields, glyph, total)
		if r.Mode == ModeVerbose && line.Grade != GradeUnknown {
			fields = append(fields, "("+r.text("dice.grade."+line.Grade.Key(), line.Grade.Key())+")")
		}
	}

	if desc := roll.Dice.Description(); desc != "" {
		fields = append(fields, desc)
	}
	if test := roll.Test(); test != nil {
		fields = append(fields, test.String())
	}
	if !redacted && roll.Rollable() {
		if values := r.values(roll); values != "" {
			fields = append(fields, valuesArrow, values)
		}
	}
	return strings.Join(fields, " ")
}

type segment struct {
	negative bool
	body     string
}

func (r Renderer) values(roll DiceRoll) string {
	var segments []segment
	for i, part := range roll.Parts {
		excluded := roll.IsExcluded(i)
		if body := r.dieBody(part); body != "" {
			if excluded {
				body = strike + body + strike
			}
			segments = append(segments, segment{negative: part.Part.Sign == Negative, body: body})
		}
		if excluded || part.Part.Modifier == 0 {
			continue
		}
		body := strconv.Itoa(abs(part.Part.Modifier))
		if !part.Part.HasDie() {
			body += r.label(part.Part.Label)
		}
		segments = append(segments, segment{negative: part.Part.Modifier < 0, body: body})
	}

	var b strings.Builder
	for i, seg := range segments {
		switch {
		case i == 0 && seg.negative:
			b.WriteString("-")
		case i > 0 && seg.negative:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		b.WriteString(seg.body)
	}
	return b.String()
}

func (r Renderer) dieBody(roll DicePartRoll) string {
	part := roll.Part
	if roll.Ladder != nil {
		return r.ladderBody(*roll.Ladder)
	}
	if !part.HasDie() {
		return ""
	}
	var b strings.Builder
	b.WriteString(faceList(roll.Faces, roll.Kept()))
	b.WriteString(strconv.Itoa(part.Count))
	b.WriteString("d")
	b.WriteString(strconv.Itoa(part.Sides))
	b.WriteString(part.DropKeep.String())
	b.WriteString(r.label(part.Label))
	return b.String()
}

func (r Renderer) ladderBody(lr LadderRoll) string {
	if !lr.Result.Rollable {
		return ""
	}
	parts := []string{faceList(lr.Tests, lr.TestKept()) + "d20"}
	for i, faces := range lr.Skills {
		body := faceList(faces, nil) + string(lr.Categories[i])
		if i != lr.Pick {
			body = strike + body + strike
		}
		parts = append(parts, body)
	}
	out := strings.Join(parts, " + ")
	if lr.Result.Direction != ladder.DirectionNone {
		out += " (" + lr.Result.String() + ")"
	}
	return out
}

func faceList(faces []int, kept []bool) string {
	out := make([]string, len(faces))
	for i, face := range faces {
		out[i] = strconv.Itoa(face)
		if kept != nil && !kept[i] {
			out[i] = strike + out[i] + strike
		}
	}
	return "[" + strings.Join(out, ", ") + "]"
}

func (r Renderer) label(label string) string {
	if label == "" {
		return ""
	}
	if key, ok := labelKeys[label]; ok {
		return " " + r.text(key, label)
	}
	return " " + label
}

func (r Renderer) ladderLabel(category ladder.Category) string {
	return r.text("dice.ladder."+string(category), string(category))
}

func (r Renderer) text(key, fallback string) string {
	if r.Printer == nil {
		return fallback
	}
	return r.Printer.Sprintf(message.Key(key, fallback))
}

func (r Renderer) glyphs() Glyphs {
	if r.Glyphs.Grades == nil {
		return DefaultGlyphs()
	}
	return r.Glyphs
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
