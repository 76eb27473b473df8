package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/mitchellh/mapstructure"
)

// Sources of a parsed response, in the order they are tried.
const (
	SourceFenced = "fenced"
	SourceBraces = "braces"
	SourceRaw    = "raw"
)

var fencedBlock = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")

// ParseResult is the outcome of ParseResponse. Data is only set when OK.
type ParseResult struct {
	Data   map[string]any
	OK     bool
	Source string
}

// ParseResponse extracts a JSON object from free-form model output. It tries a
// fenced code block, then the outermost brace-delimited span, then the whole
// trimmed text; the first candidate that decodes to an object wins.
func ParseResponse(text string) ParseResult {
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		if data, ok := decodeObject(m[1]); ok {
			return ParseResult{Data: data, OK: true, Source: SourceFenced}
		}
	}

	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		if data, ok := decodeObject(text[start : end+1]); ok {
			return ParseResult{Data: data, OK: true, Source: SourceBraces}
		}
	}

	if data, ok := decodeObject(text); ok {
		return ParseResult{Data: data, OK: true, Source: SourceRaw}
	}
	return ParseResult{}
}

func decodeObject(s string) (map[string]any, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(s), &data); err != nil || data == nil {
		return nil, false
	}
	return data, true
}

// decodeWeak maps parsed data onto out, converting single values to slices and
// numeric strings to numbers. Keys match field names ignoring case, '_' and '-'.
// Each key is decoded on its own, so a mistyped value only loses its field.
// It returns how many keys were decoded into a field, and the joined errors of
// the keys that were skipped.
func decodeWeak(data map[string]any, out any) (int, error) {
	target := reflect.ValueOf(out)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return 0, fmt.Errorf("decode target must be a non-nil pointer, got %T", out)
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var (
		decoded int
		errs    []error
	)
	for _, key := range keys {
		field := map[string]any{key: data[key]}

		// Decode into a scratch value first so a failing key never leaves a
		// half-written field behind.
		scratch := reflect.New(target.Elem().Type())
		md, err := weakDecode(field, scratch.Interface())
		if err != nil {
			errs = append(errs, fmt.Errorf("field %q: %w", key, err))
			continue
		}
		if len(md.Keys) == 0 {
			continue
		}
		if _, err = weakDecode(field, out); err != nil {
			errs = append(errs, fmt.Errorf("field %q: %w", key, err))
			continue
		}
		decoded++
	}
	return decoded, errors.Join(errs...)
}

func weakDecode(data map[string]any, out any) (*mapstructure.Metadata, error) {
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           out,
		MatchName: func(mapKey, fieldName string) bool {
			return foldName(mapKey) == foldName(fieldName)
		},
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(data); err != nil {
		return nil, err
	}
	return &md, nil
}

func foldName(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}
