package dice

import (
	"github.com/louisbranch/dicetower/internal/random"
)

// Engine parses, rolls and renders expressions for one system.
type Engine struct {
	system *System
	source random.Source
	rules  CritRules
	locale string
}

// Option configures an Engine.
type Option func(*Engine)

// WithSource sets the random source. Defaults to a seeded LockedSource.
func WithSource(src random.Source) Option {
	return func(e *Engine) { e.source = src }
}

// WithCritRules sets the critical manipulation rules.
func WithCritRules(rules CritRules) Option {
	return func(e *Engine) { e.rules = rules }
}

// WithLocale sets the locale used by Render.
func WithLocale(locale string) Option {
	return func(e *Engine) { e.locale = locale }
}

// NewEngine compiles system and builds an engine around it.
func NewEngine(system *System, opts ...Option) (*Engine, error) {
	if err := system.Compile(); err != nil {
		return nil, err
	}
	e := &Engine{system: system}
	for _, opt := range opts {
		opt(e)
	}
	if e.source == nil {
		seed, err := random.NewSeed()
		if err != nil {
			return nil, err
		}
		e.source = random.NewLockedSource(seed)
	}
	if e.rules.Method == "" {
		e.rules.Method = DefaultCritMethod
	}
	return e, nil
}

// System returns the engine's system.
func (e *Engine) System() *System {
	return e.system
}

// Rules returns the engine's critical rules.
func (e *Engine) Rules() CritRules {
	return e.rules
}

// Parse assembles text into a DiceGroup.
func (e *Engine) Parse(text string) DiceGroup {
	group, err := Parse(e.system, text)
	if err != nil {
		// Unreachable: NewEngine compiled the system.
		return DiceGroup{}
	}
	return group
}

// Roll rolls group and runs the system's manipulation hook.
func (e *Engine) Roll(group DiceGroup) (DiceGroupRoll, error) {
	roll, err := RollGroup(e.system, group, e.source)
	if err != nil {
		return DiceGroupRoll{}, err
	}
	if e.system.Manipulate == nil {
		return roll, nil
	}
	return e.system.Manipulate(roll, Environment{Source: e.source, Rules: e.rules})
}

// Evaluate parses and rolls text.
func (e *Engine) Evaluate(text string) (DiceGroupRoll, error) {
	return e.Roll(e.Parse(text))
}

// Render renders roll in the engine's locale.
func (e *Engine) Render(roll DiceGroupRoll, mode Mode) string {
	return NewRenderer(mode, e.locale).Render(roll)
}
