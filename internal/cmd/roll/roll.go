// Package roll parses roll command flags and evaluates one expression.
package roll

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"github.com/louisbranch/dicetower/internal/dice"
	"github.com/louisbranch/dicetower/internal/dice/systems/manifest"
	entrypoint "github.com/louisbranch/dicetower/internal/platform/cmd"
	apperrors "github.com/louisbranch/dicetower/internal/platform/errors"
	"github.com/louisbranch/dicetower/internal/platform/otel"
	"github.com/louisbranch/dicetower/internal/random"
)

// Config holds roll command configuration.
type Config struct {
	System        string `env:"DICETOWER_SYSTEM" envDefault:"pf2e"`
	SystemVersion string `env:"DICETOWER_SYSTEM_VERSION"`
	CritMethod    string `env:"DICETOWER_CRIT_METHOD"`
	Locale        string `env:"DICETOWER_LOCALE" envDefault:"en-US"`
	Verbose       bool   `env:"DICETOWER_VERBOSE"`
	Seed          int64  `env:"DICETOWER_SEED"`
	RulesPath     string `env:"DICETOWER_RULES"`
	Explain       bool
	Log           entrypoint.LogConfig

	// Expression is the text after the flags.
	Expression string
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.System, "system", cfg.System, "Game system id")
	fs.StringVar(&cfg.SystemVersion, "system-version", cfg.SystemVersion, "Game system rules version (default: the system's default)")
	fs.StringVar(&cfg.CritMethod, "crit", cfg.CritMethod, "Critical damage method (overrides the rules file)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Locale for labels and errors")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Render one line per roll with its grade")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed (0 picks one)")
	fs.StringVar(&cfg.RulesPath, "rules", cfg.RulesPath, "YAML house rules file")
	fs.BoolVar(&cfg.Explain, "explain", cfg.Explain, "Print grading steps for each roll")
	fs.StringVar(&cfg.Log.File, "log-file", cfg.Log.File, "Also write logs to this rotated file")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Expression = strings.Join(fs.Args(), " ")
	return cfg, nil
}

// Run evaluates cfg.Expression and writes the rendered result to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRoll, func(ctx context.Context) error {
		return Evaluate(ctx, cfg, out)
	})
}

// Evaluate builds an engine from cfg and rolls cfg.Expression once.
func Evaluate(ctx context.Context, cfg Config, out io.Writer) (err error) {
	_, span := otel.Tracer().Start(ctx, "dice.evaluate", trace.WithAttributes(
		attribute.String("dice.system", cfg.System),
		attribute.String("dice.expression", cfg.Expression),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	engine, seed, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	span.SetAttributes(
		attribute.String("dice.system_version", engine.System().Version),
		attribute.String("dice.crit_method", string(engine.Rules().Method)),
		attribute.Int64("dice.seed", seed),
	)

	roll, err := engine.Evaluate(cfg.Expression)
	if err != nil {
		return err
	}
	totals := make([]int64, 0, len(roll.Rolls))
	for _, line := range roll.Lines() {
		if line.Visibility == dice.VisibilityShown {
			totals = append(totals, int64(roll.Rolls[line.Index].Total()))
		}
	}
	span.SetAttributes(attribute.Int64Slice("dice.totals", totals))

	mode := dice.ModeCompact
	if cfg.Verbose {
		mode = dice.ModeVerbose
	}
	if _, err := fmt.Fprintln(out, engine.Render(roll, mode)); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if cfg.Explain {
		if err := writeExplain(out, roll); err != nil {
			return err
		}
	}
	log.Printf("rolled %q with %s seed=%d", cfg.Expression, engine.System().ID, seed)
	return nil
}

func buildEngine(cfg Config) (*dice.Engine, int64, error) {
	if cfg.Seed < 0 {
		return nil, 0, apperrors.WithMetadata(apperrors.CodeSeedOutOfRange,
			fmt.Sprintf("seed %d is negative", cfg.Seed),
			map[string]string{"seed": fmt.Sprint(cfg.Seed)})
	}
	rules, err := LoadRules(cfg.RulesPath)
	if err != nil {
		return nil, 0, err
	}
	if strings.TrimSpace(cfg.CritMethod) != "" {
		method, err := dice.ParseCritMethod(cfg.CritMethod)
		if err != nil {
			return nil, 0, err
		}
		rules.Method = method
	}

	registry, err := manifest.Registry()
	if err != nil {
		return nil, 0, err
	}
	id := cfg.System
	if strings.TrimSpace(id) == "" {
		id = manifest.DefaultSystemID
	}
	system, err := registry.Lookup(id, cfg.SystemVersion)
	if err != nil {
		return nil, 0, err
	}

	seed, err := random.ResolveSeed(cfg.Seed, nil)
	if err != nil {
		return nil, 0, err
	}
	engine, err := dice.NewEngine(system,
		dice.WithSource(random.NewLockedSource(seed)),
		dice.WithCritRules(rules),
		dice.WithLocale(cfg.Locale),
	)
	if err != nil {
		return nil, 0, err
	}
	return engine, seed, nil
}

type explainView struct {
	Index        int               `yaml:"index"`
	Dice         string            `yaml:"dice"`
	System       string            `yaml:"system"`
	RulesVersion string            `yaml:"rules_version"`
	Total        int               `yaml:"total"`
	Grade        string            `yaml:"grade"`
	Steps        []explainStepView `yaml:"steps"`
}

type explainStepView struct {
	Code    string         `yaml:"code"`
	Message string         `yaml:"message"`
	Data    map[string]any `yaml:"data,omitempty"`
}

func writeExplain(out io.Writer, roll dice.DiceGroupRoll) error {
	views := make([]explainView, 0, len(roll.Rolls))
	for _, line := range roll.Lines() {
		if line.Visibility != dice.VisibilityShown {
			continue
		}
		i, r := line.Index, roll.Rolls[line.Index]
		result := dice.Explain(r, roll.System)
		view := explainView{
			Index:        i,
			Dice:         r.Dice.String(),
			System:       result.System,
			RulesVersion: result.RulesVersion,
			Total:        result.Total,
			Grade:        result.Grade.String(),
		}
		for _, step := range result.Steps {
			view.Steps = append(view.Steps, explainStepView{Code: step.Code, Message: step.Message, Data: step.Data})
		}
		views = append(views, view)
	}
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(views); err != nil {
		return fmt.Errorf("encode explain: %w", err)
	}
	return encoder.Close()
}

// Message returns the user-facing text for err in locale.
func Message(err error, locale string) string {
	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) {
		return domainErr.LocalizedMessage(locale)
	}
	return err.Error()
}
