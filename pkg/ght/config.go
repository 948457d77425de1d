package ght

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

var validate = validator.New()

// FormatVersion is the current on-disk tree format version this package
// writes and the only one it reads.
const FormatVersion uint8 = 1

// endian byte values written in the tree header.
const (
	endianBig    uint8 = 0
	endianLittle uint8 = 1
)

// Config controls how a Tree is built and (de)serialized.
type Config struct {
	// AllowDuplicates controls SAME-case insertion behavior: when true,
	// a duplicate full-length hash becomes a hash-less attribute-only
	// child; when false it is silently dropped.
	AllowDuplicates bool

	// MaxHashLength bounds hash comparisons and the geohash resolution
	// used to build full-length hashes from coordinates. Must be in
	// [1, geohash.MaxLength].
	MaxHashLength uint8 `validate:"gte=1,lte=18"`

	// FormatVersion is recorded in the tree header on write. Readers
	// reject any other value.
	FormatVersion uint8

	// Compression enables gzip framing on file-backed byte streams.
	// It has no effect on in-memory streams.
	Compression bool

	// Logger receives structured events for warnings and notable
	// operations (short reads, dropped duplicates, compaction results).
	// The zero value is zerolog's no-op logger, so Config{} is usable
	// as-is.
	Logger zerolog.Logger

	// Metrics, when non-nil, receives counters for points inserted,
	// nodes split, attributes compacted, and bytes written/read. A nil
	// Metrics disables instrumentation entirely.
	Metrics *Metrics
}

// DefaultConfig returns a Config with the conventional defaults: no
// duplicates, maximum hash length, current format version, no
// compression, a no-op logger, and no metrics.
func DefaultConfig() Config {
	return Config{
		AllowDuplicates: false,
		MaxHashLength:   18,
		FormatVersion:   FormatVersion,
		Compression:     false,
	}
}

func (c Config) validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("ght: invalid config: %w", err)
	}
	return nil
}
