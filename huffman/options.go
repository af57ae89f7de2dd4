package huffman

import (
	"errors"
	"fmt"

	"github.com/irfanbozkurt/huff/logger"
	"github.com/rs/zerolog"
)

// TreeFormat selects how the preorder tree is serialized.
type TreeFormat uint8

const (
	// TreeEscaped writes one byte per node, except for leaves holding the
	// sentinel or the escape byte which are preceded by the escape byte.
	// Any input can be compressed, but a tree holding either byte is larger
	// than its node count. Containers whose tree stores a backslash as a bare
	// leaf, as TreePlain does, cannot be read in this format.
	TreeEscaped TreeFormat = iota

	// TreePlain writes exactly one byte per node. Inputs containing the
	// sentinel byte are rejected with ErrSentinelCollision.
	TreePlain
)

func (f TreeFormat) String() string {
	switch f {
	case TreeEscaped:
		return "escaped"
	case TreePlain:
		return "plain"
	}
	return fmt.Sprintf("TreeFormat(%d)", uint8(f))
}

const (
	// DefaultSentinel marks internal nodes in the serialized tree.
	DefaultSentinel byte = '*'

	// escapeByte precedes leaves that would otherwise read as a marker.
	escapeByte byte = '\\'
)

// Option configures a Compressor, Decompress or Inspect.
// Both sides of a container must be given the same tree format and sentinel.
type Option func(*config) error

type config struct {
	sentinel byte
	format   TreeFormat
	nbTasks  int
	log      zerolog.Logger
}

func newConfig(opts ...Option) (config, error) {
	cfg := config{
		sentinel: DefaultSentinel,
		format:   TreeEscaped,
		nbTasks:  1,
		log:      *logger.Logger(),
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return config{}, err
		}
	}
	if cfg.format == TreeEscaped && cfg.sentinel == escapeByte {
		return config{}, fmt.Errorf("sentinel 0x%02x is reserved as the escape byte", escapeByte)
	}
	return cfg, nil
}

// WithSentinel sets the byte marking internal nodes. Defaults to '*'.
func WithSentinel(b byte) Option {
	return func(cfg *config) error {
		cfg.sentinel = b
		return nil
	}
}

// WithTreeFormat sets the tree serialization. Defaults to TreeEscaped.
func WithTreeFormat(f TreeFormat) Option {
	return func(cfg *config) error {
		if f != TreeEscaped && f != TreePlain {
			return fmt.Errorf("unknown tree format %s", f)
		}
		cfg.format = f
		return nil
	}
}

// WithConcurrency sets the number of goroutines counting byte frequencies.
func WithConcurrency(nbTasks int) Option {
	return func(cfg *config) error {
		if nbTasks < 1 {
			return errors.New("concurrency must be at least 1")
		}
		cfg.nbTasks = nbTasks
		return nil
	}
}

// WithLogger overrides the global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(cfg *config) error {
		cfg.log = l
		return nil
	}
}
