package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput is wrapped by every boundary validation failure.
var ErrInvalidInput = errors.New("invalid input")

// Limit bounds accepted for trending result counts.
const (
	MinLimit     = 1
	MaxLimit     = 100
	DefaultLimit = 25
)

// Period is the trending time window.
type Period string

// Supported trending periods.
const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// Periods lists every accepted period in display order.
var Periods = []Period{PeriodDaily, PeriodWeekly, PeriodMonthly}

// ParsePeriod validates a period token. An empty token selects daily.
func ParsePeriod(s string) (Period, error) {
	return parseEnum(s, "period", PeriodDaily, Periods)
}

// Depth controls how much page content is mined.
type Depth string

// Supported extraction depths.
const (
	DepthBasic  Depth = "basic"
	DepthNormal Depth = "normal"
	DepthDeep   Depth = "deep"
)

// Depths lists every accepted depth.
var Depths = []Depth{DepthBasic, DepthNormal, DepthDeep}

// ParseDepth validates a depth token. An empty token selects normal.
func ParseDepth(s string) (Depth, error) {
	return parseEnum(s, "depth", DepthNormal, Depths)
}

// SummaryLength is the requested size tier of an AI summary.
type SummaryLength string

// Supported summary lengths.
const (
	SummaryShort  SummaryLength = "short"
	SummaryMedium SummaryLength = "medium"
	SummaryLong   SummaryLength = "long"
)

// SummaryLengths lists every accepted summary length.
var SummaryLengths = []SummaryLength{SummaryShort, SummaryMedium, SummaryLong}

// ParseSummaryLength validates a summary length token. An empty token selects medium.
func ParseSummaryLength(s string) (SummaryLength, error) {
	return parseEnum(s, "summary length", SummaryMedium, SummaryLengths)
}

// Words returns the approximate word target for the tier.
func (l SummaryLength) Words() int {
	switch l {
	case SummaryShort:
		return 50
	case SummaryLong:
		return 200
	default:
		return 100
	}
}

// Format is an output rendering format.
type Format string

// Supported output formats.
const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatXLSX     Format = "xlsx"
)

// Formats lists every accepted output format.
var Formats = []Format{FormatJSON, FormatYAML, FormatTable, FormatMarkdown, FormatXLSX}

// ParseFormat validates a format token. An empty token selects table.
func ParseFormat(s string) (Format, error) {
	return parseEnum(s, "format", FormatTable, Formats)
}

// Binary reports whether the format cannot be written to a terminal.
func (f Format) Binary() bool {
	return f == FormatXLSX
}

// Extension returns the file extension conventionally used for the format.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	case FormatMarkdown:
		return ".md"
	case FormatXLSX:
		return ".xlsx"
	default:
		return ".txt"
	}
}

// ValidateLimit checks a trending result limit.
func ValidateLimit(n int) error {
	if n < MinLimit || n > MaxLimit {
		return fmt.Errorf("%w: limit must be between %d and %d, got %d", ErrInvalidInput, MinLimit, MaxLimit, n)
	}
	return nil
}

func parseEnum[T ~string](s, name string, def T, allowed []T) (T, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return def, nil
	}
	for _, v := range allowed {
		if string(v) == s {
			return v, nil
		}
	}

	names := make([]string, len(allowed))
	for i, v := range allowed {
		names[i] = string(v)
	}
	return def, fmt.Errorf("%w: unknown %s %q (valid: %s)", ErrInvalidInput, name, s, strings.Join(names, ", "))
}
