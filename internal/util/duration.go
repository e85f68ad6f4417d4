package util

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	ErrInvalidDurationFormat = errors.New("invalid duration format, use values like 15m, 1h or 7d")

	expiryPattern = regexp.MustCompile(`^(\d+)([smhd])$`)
)

// ParseExpiry accepts digits followed by one of s, m, h, d.
func ParseExpiry(spec string) (time.Duration, error) {
	match := expiryPattern.FindStringSubmatch(spec)
	if match == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDurationFormat, spec)
	}
	value, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDurationFormat, spec)
	}

	var unit time.Duration
	switch match[2] {
	case "s":
		unit = time.Second
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	}
	if value > int64(1<<62)/int64(unit) {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidDurationFormat, spec)
	}
	return time.Duration(value) * unit, nil
}
