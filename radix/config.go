package radix

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aglyzov/go-trie/label"
)

// Strategy selects the compiled storage layout.
type Strategy uint8

const (
	IndexStrategy Strategy = iota
	PointerStrategy
)

func (s Strategy) String() string {
	switch s {
	case IndexStrategy:
		return "index"
	case PointerStrategy:
		return "pointer"
	}

	return fmt.Sprintf("Strategy(%d)", uint8(s))
}

// ParseStrategy parses "index" or "pointer".
func ParseStrategy(str string) (Strategy, error) {
	switch str {
	case "index", "":
		return IndexStrategy, nil
	case "pointer":
		return PointerStrategy, nil
	}

	return 0, fmt.Errorf("%w: unknown strategy %q", ErrBadConfig, str)
}

// DupPolicy decides what Add does with a key that already has a payload.
type DupPolicy uint8

const (
	Overwrite DupPolicy = iota // replace the payload
	KeepFirst                  // keep the first payload, drop the new one
	Reject                     // keep the first payload and return ErrDuplicateKey
)

func (p DupPolicy) String() string {
	switch p {
	case Overwrite:
		return "overwrite"
	case KeepFirst:
		return "keep-first"
	case Reject:
		return "reject"
	}

	return fmt.Sprintf("DupPolicy(%d)", uint8(p))
}

// ParseDupPolicy parses "overwrite", "keep-first" or "reject".
func ParseDupPolicy(str string) (DupPolicy, error) {
	switch str {
	case "overwrite", "":
		return Overwrite, nil
	case "keep-first":
		return KeepFirst, nil
	case "reject":
		return Reject, nil
	}

	return 0, fmt.Errorf("%w: unknown duplicate policy %q", ErrBadConfig, str)
}

// DefaultDenseFanout is the default edge count from which a byte-wise node gets
// a bitmap index.
const DefaultDenseFanout = 8

type settings struct {
	scheme      label.Scheme
	compression bool
	strategy    Strategy
	duplicates  DupPolicy
	denseFanout int
	logger      *zap.Logger
}

func defaultSettings() settings {
	return settings{
		scheme:      label.Bytes(),
		compression: true,
		strategy:    IndexStrategy,
		duplicates:  Overwrite,
		denseFanout: DefaultDenseFanout,
		logger:      zap.NewNop(),
	}
}

// Option configures a Builder.
type Option func(*settings)

// WithScheme sets how keys are cut into units.
func WithScheme(scheme label.Scheme) Option {
	return func(s *settings) {
		s.scheme = scheme
	}
}

// WithCompression turns edge compression on (radix trie) or off (plain trie,
// one unit per edge). Callers streaming keys into Automaton.Advance one unit at
// a time need WithCompression(false): a compressed edge only accepts its whole
// label.
func WithCompression(on bool) Option {
	return func(s *settings) {
		s.compression = on
	}
}

// WithStrategy sets the compiled storage layout.
func WithStrategy(strategy Strategy) Option {
	return func(s *settings) {
		s.strategy = strategy
	}
}

// WithDuplicates sets the duplicate key policy.
func WithDuplicates(policy DupPolicy) Option {
	return func(s *settings) {
		s.duplicates = policy
	}
}

// WithDenseFanout sets the edge count from which a compiled byte-wise node gets
// a bitmap index. Zero disables bitmap indexes.
func WithDenseFanout(num int) Option {
	return func(s *settings) {
		s.denseFanout = max(num, 0)
	}
}

// WithLogger sets a logger for debug events. A nil logger disables logging.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		if logger == nil {
			logger = zap.NewNop()
		}
		s.logger = logger
	}
}

// Config is the file/flag facing form of the Builder options.
type Config struct {
	Scheme      string `mapstructure:"scheme"`       // bytes | runes | delimited:<byte>
	Compression bool   `mapstructure:"compression"`  // radix (true) or plain trie (false)
	Strategy    string `mapstructure:"strategy"`     // index | pointer
	Duplicates  string `mapstructure:"duplicates"`   // overwrite | keep-first | reject
	DenseFanout int    `mapstructure:"dense_fanout"` // 0 disables bitmap indexes
}

// DefaultConfig returns a Config matching the Builder defaults.
func DefaultConfig() Config {
	return Config{
		Scheme:      label.Bytes().String(),
		Compression: true,
		Strategy:    IndexStrategy.String(),
		Duplicates:  Overwrite.String(),
		DenseFanout: DefaultDenseFanout,
	}
}

// Validate checks the textual fields of the config.
func (c *Config) Validate() error {
	_, err := c.Options()

	return err
}

// Options converts the config into Builder options.
func (c *Config) Options() ([]Option, error) {
	scheme, err := label.ParseScheme(c.Scheme)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadConfig, err)
	}

	strategy, err := ParseStrategy(c.Strategy)
	if err != nil {
		return nil, err
	}

	duplicates, err := ParseDupPolicy(c.Duplicates)
	if err != nil {
		return nil, err
	}

	if c.DenseFanout < 0 {
		return nil, fmt.Errorf("%w: negative dense_fanout %d", ErrBadConfig, c.DenseFanout)
	}

	return []Option{
		WithScheme(scheme),
		WithCompression(c.Compression),
		WithStrategy(strategy),
		WithDuplicates(duplicates),
		WithDenseFanout(c.DenseFanout),
	}, nil
}
