package dice

import (
	"sync"

	"github.com/louisbranch/dicetower/internal/dice/ladder"
	"github.com/louisbranch/dicetower/internal/dice/token"
	apperrors "github.com/louisbranch/dicetower/internal/platform/errors"
	"github.com/louisbranch/dicetower/internal/random"
)

// DefaultSides is the die size used when a system does not set one.
const DefaultSides = 20

// TokenHandler consumes a system-specific token during assembly.
type TokenHandler func(b *Builder, tok token.Token)

// TargetResolver converts a target token into a Test.
type TargetResolver func(tok token.Token) Test

// GradeFunc grades one rolled Dice.
type GradeFunc func(roll DiceRoll) Grade

// ManipulateFunc transforms a freshly rolled group, e.g. to add critical
// damage. It must return new rolls rather than modify its input.
type ManipulateFunc func(roll DiceGroupRoll, env Environment) (DiceGroupRoll, error)

// Environment carries the collaborators a manipulation hook may use.
type Environment struct {
	Source random.Source
	Rules  CritRules
}

// System is the capability record a game system plugs into the engine.
// Fields must not change after the first call to Compile.
type System struct {
	ID      string
	Name    string
	Version string
	// DefaultSides is the die size for terms such as "d" with no sides and
	// for Dice with no die at all. Zero means 20.
	DefaultSides int

	// Overlay edits a clone of the base pattern table.
	Overlay func(table *token.Table)
	// Required lists system kinds that must survive the overlay.
	Required []token.Kind
	// Handlers consume system kinds; they take precedence over the base
	// handling of shared kinds.
	Handlers map[token.Kind]TokenHandler

	ResolveTarget TargetResolver
	Grade         GradeFunc
	Manipulate    ManipulateFunc
	// Ladder is the outcome ladder for systems with shift-based skill dice.
	Ladder []ladder.Category

	once     sync.Once
	compiled *token.Compiled
	err      error
}

var baseRequired = []token.Kind{
	token.KindDice,
	token.KindDropKeep,
	token.KindMod,
	token.KindTarget,
	token.KindSeparator,
}

// Compile validates the system and builds its scanner. It runs once; later
// calls return the first result.
func (s *System) Compile() error {
	s.once.Do(func() {
		if s.ID == "" {
			s.err = apperrors.New(apperrors.CodeSystemInvalid, "system id is required")
			return
		}
		if s.DefaultSides < 0 {
			s.err = apperrors.WithMetadata(apperrors.CodeSystemInvalid,
				"default sides must not be negative", map[string]string{"system": s.ID})
			return
		}
		table := token.Base()
		if s.Overlay != nil {
			s.Overlay(&table)
		}
		required := append(append([]token.Kind(nil), baseRequired...), s.Required...)
		compiled, err := token.Compile(table, required...)
		if err != nil {
			s.err = &apperrors.Error{
				Code:     apperrors.GetCode(err),
				Message:  "compile system " + s.ID,
				Metadata: map[string]string{"system": s.ID},
				Cause:    err,
			}
			return
		}
		s.compiled = compiled
	})
	return s.err
}

// Tokenize scans text with the system's compiled table.
func (s *System) Tokenize(text string) ([]token.Token, error) {
	if err := s.Compile(); err != nil {
		return nil, err
	}
	return s.compiled.Tokenize(text), nil
}

func (s *System) sides() int {
	if s.DefaultSides > 0 {
		return s.DefaultSides
	}
	return DefaultSides
}

func (s *System) resolveTarget(tok token.Token) Test {
	if s.ResolveTarget != nil {
		return s.ResolveTarget(tok)
	}
	return ComparisonTarget(tok)
}

func (s *System) grade(roll DiceRoll) Grade {
	if s.Grade != nil {
		return s.Grade(roll)
	}
	return GradeComparisonRoll(roll)
}
