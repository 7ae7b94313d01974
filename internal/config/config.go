// Package config decodes the optional ambient settings file both binaries
// accept via -config, following busoc-assist/main.go's loadFromConfig and
// assist.go's Assist.Load use of github.com/midbel/toml.
package config

import "github.com/midbel/toml"

// Default values used when no -config flag is given.
const (
	DefaultCompressedSuffix = ".zst"
	DefaultCompressOutput   = false
	DefaultVerbose          = false
)

// Config carries ambient, non-core settings spec.md leaves to the
// implementation: the path resolver's compressed-extension marker, whether
// the output cube itself should be written compressed, default log
// verbosity, and an active-frames set capacity hint. ActiveSetHint is
// decoded but not read by either binary; the active-frames set does not
// pre-size itself from it. None of these affect the core algorithm's
// output; every field has a sane zero-flag default so a binary run with no
// -config flag behaves identically to one with an empty file.
//
// CompressedSuffix and CompressOutput are deliberately separate knobs:
// CompressedSuffix only tells the path resolver which sibling extension to
// probe for on the *input* side (spec.md §4.3) — probing for a sibling that
// may not exist is harmless, so it is safe to leave enabled by default.
// CompressOutput decides whether cmd/cube writes its *own* output cube
// through that suffix, which changes the name of the file actually
// produced, so it defaults to off: a plain invocation writes and logs the
// same uncompressed path.
type Config struct {
	CompressedSuffix string `toml:"compressed-suffix"`
	CompressOutput   bool   `toml:"compress-output"`
	Verbose          bool   `toml:"verbose"`
	ActiveSetHint    int    `toml:"active-set-hint"`
}

// Default returns the settings used when -config is not supplied.
func Default() *Config {
	return &Config{
		CompressedSuffix: DefaultCompressedSuffix,
		CompressOutput:   DefaultCompressOutput,
		Verbose:          DefaultVerbose,
	}
}

// Load decodes file into a Config seeded with Default's values, so a file
// that only overrides one field leaves the rest at their defaults.
func Load(file string) (*Config, error) {
	c := Default()
	if err := toml.DecodeFile(file, c); err != nil {
		return nil, err
	}
	return c, nil
}
