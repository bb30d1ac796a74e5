// Package numerator provides document number generation.
package numerator

import (
	"crypto/rand"
	"fmt"
	"time"
)

const suffixAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g. "VND").
	Prefix string

	// SuffixLen is the number of random characters appended (default 4).
	SuffixLen int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:    prefix,
		SuffixLen: 4,
	}
}

// Service generates document numbers of the form
// PREFIX + compact UTC timestamp + random uppercase alphanumeric suffix,
// e.g. VND20260901143205XK4F. The timestamp keeps numbers roughly ordered
// and human-datable; the random suffix disambiguates numbers generated
// within the same second. Callers still verify uniqueness before use, the
// suffix only makes collisions rare, not impossible.
type Service struct {
	cfg Config
	now func() time.Time
}

// New creates a numerator service.
func New(cfg Config) *Service {
	if cfg.SuffixLen <= 0 {
		cfg.SuffixLen = 4
	}
	return &Service{cfg: cfg, now: time.Now}
}

// Next generates a new document number.
func (s *Service) Next() (string, error) {
	ts := s.now().UTC().Format("20060102150405")
	suffix, err := randomSuffix(s.cfg.SuffixLen)
	if err != nil {
		return "", fmt.Errorf("generate number suffix: %w", err)
	}
	return s.cfg.Prefix + ts + suffix, nil
}

func randomSuffix(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = suffixAlphabet[int(b)%len(suffixAlphabet)]
	}
	return string(buf), nil
}
