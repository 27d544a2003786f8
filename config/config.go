package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/golly-go/lsys/drawing"
	"github.com/golly-go/lsys/lsys"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. LSYS_DRAWING_ITERATIONS.
const EnvPrefix = "LSYS"

// Config describes one figure and how to log while rendering it.
type Config struct {
	LogLevel string        `mapstructure:"log_level"`
	LSystem  LSystemConfig `mapstructure:"lsystem"`
	Drawing  DrawingConfig `mapstructure:"drawing"`
}

// LSystemConfig holds the grammar. Rules are written "F -> F+F" so that
// symbol case survives config keys being case insensitive.
type LSystemConfig struct {
	Axiom string   `mapstructure:"axiom"`
	Rules []string `mapstructure:"rules"`
}

// DrawingConfig holds the turtle parameters. Angles are in degrees.
type DrawingConfig struct {
	StartX        float64 `mapstructure:"start_x"`
	StartY        float64 `mapstructure:"start_y"`
	StartingAngle float64 `mapstructure:"starting_angle"`
	DeltaAngle    float64 `mapstructure:"delta_angle"`
	Step          int     `mapstructure:"step"`
	Iterations    int     `mapstructure:"iterations"`
}

// Default is a quadratic Koch curve.
func Default() Config {
	return Config{
		LogLevel: "info",
		LSystem: LSystemConfig{
			Axiom: "F",
			Rules: []string{"F -> F+F-F-F+F"},
		},
		Drawing: DrawingConfig{
			StartX:     400,
			StartY:     400,
			DeltaAngle: 90,
			Step:       5,
			Iterations: 3,
		},
	}
}

// Load reads path (any format viper understands) over the defaults and then
// applies LSYS_* environment overrides. An empty path loads defaults and
// environment only.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("lsystem.axiom", d.LSystem.Axiom)
	v.SetDefault("lsystem.rules", d.LSystem.Rules)
	v.SetDefault("drawing.start_x", d.Drawing.StartX)
	v.SetDefault("drawing.start_y", d.Drawing.StartY)
	v.SetDefault("drawing.starting_angle", d.Drawing.StartingAngle)
	v.SetDefault("drawing.delta_angle", d.Drawing.DeltaAngle)
	v.SetDefault("drawing.step", d.Drawing.Step)
	v.SetDefault("drawing.iterations", d.Drawing.Iterations)
}

// Validate checks the log level and every rule.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}

	if _, err := ParseRules(c.LSystem.Rules); err != nil {
		return err
	}

	if c.Drawing.Step < 0 {
		return fmt.Errorf("config: drawing.step must not be negative, got %d", c.Drawing.Step)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (logrus.Level, error) {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return lvl, nil
}

// Snapshot converts the drawing section to radians.
func (c Config) Snapshot() drawing.Snapshot {
	return drawing.Snapshot{
		StartingPosition: drawing.Vector{X: c.Drawing.StartX, Y: c.Drawing.StartY},
		StartingAngle:    drawing.DegreeToRad(c.Drawing.StartingAngle),
		DeltaAngle:       drawing.DegreeToRad(c.Drawing.DeltaAngle),
		Step:             c.Drawing.Step,
		Iterations:       c.Drawing.Iterations,
	}
}

// Build creates the models described by c.
func (c Config) Build() (*lsys.LSystem, *drawing.Parameters, error) {
	rules, err := ParseRules(c.LSystem.Rules)
	if err != nil {
		return nil, nil, err
	}
	return lsys.New(c.LSystem.Axiom, rules), drawing.NewParameters(c.Snapshot()), nil
}

// ParseRule parses "P -> S". P must be exactly one symbol; S may be empty.
func ParseRule(s string) (rune, string, error) {
	pred, succ, ok := strings.Cut(s, "->")
	if !ok {
		return 0, "", fmt.Errorf("config: rule %q: missing \"->\"", s)
	}

	pred = strings.TrimSpace(pred)
	if utf8.RuneCountInString(pred) != 1 {
		return 0, "", fmt.Errorf("config: rule %q: predecessor must be a single symbol", s)
	}

	r, _ := utf8.DecodeRuneInString(pred)
	return r, strings.TrimSpace(succ), nil
}

// ParseRules parses every rule; a predecessor may appear only once.
func ParseRules(list []string) (lsys.Rules, error) {
	rules := make(lsys.Rules, len(list))
	for _, s := range list {
		pred, succ, err := ParseRule(s)
		if err != nil {
			return nil, err
		}
		if _, dup := rules[pred]; dup {
			return nil, fmt.Errorf("config: duplicate rule for %q", pred)
		}
		rules[pred] = succ
	}
	return rules, nil
}
