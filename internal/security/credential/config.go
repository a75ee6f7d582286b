package credential

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Params controls PBKDF2-SHA512 derivation cost and output shape.
type Params struct {
	Iterations int
	SaltLength int
	KeyLength  int
}

// Config is the single configuration surface for this package.
type Config struct {
	Params Params
}

// DefaultConfig returns the baseline parameter set for interactive logins.
// The iteration count is a latency/security tradeoff and can be raised via
// env without invalidating stored credentials (the count is encoded into
// each credential string).
func DefaultConfig() Config {
	return Config{
		Params: Params{
			Iterations: 210_000,
			SaltLength: 16,
			KeyLength:  64,
		},
	}
}

// FromEnv loads config from environment variables.
//
// Env surface:
// - ROSTER_KDF_ITERATIONS
// - ROSTER_KDF_SALT_LEN
// - ROSTER_KDF_KEY_LEN
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v, ok := os.LookupEnv("ROSTER_KDF_ITERATIONS"); ok {
		n, err := atoiBounded(v, 1_000, 10_000_000)
		if err != nil {
			return Config{}, fmt.Errorf("ROSTER_KDF_ITERATIONS: %w", err)
		}
		cfg.Params.Iterations = n
	}

	if v, ok := os.LookupEnv("ROSTER_KDF_SALT_LEN"); ok {
		n, err := atoiBounded(v, 8, 64)
		if err != nil {
			return Config{}, fmt.Errorf("ROSTER_KDF_SALT_LEN: %w", err)
		}
		cfg.Params.SaltLength = n
	}

	if v, ok := os.LookupEnv("ROSTER_KDF_KEY_LEN"); ok {
		n, err := atoiBounded(v, 16, 128)
		if err != nil {
			return Config{}, fmt.Errorf("ROSTER_KDF_KEY_LEN: %w", err)
		}
		cfg.Params.KeyLength = n
	}

	return cfg, nil
}

func atoiBounded(s string, minVal, maxVal int) (int, error) {
	s = strings.TrimSpace(s)
	i64, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("not an integer")
	}

	i := int(i64)
	if i < minVal || i > maxVal {
		return 0, fmt.Errorf("out of range [%d..%d]", minVal, maxVal)
	}
	return i, nil
}
