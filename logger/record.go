package logger

import (
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fastjson"
)

// ErrNotSerializable is returned when a value cannot be encoded as JSON.
var ErrNotSerializable = errors.New("value is not serializable")

// Record is a single structured log event.
type Record struct {
	// Timestamp is the UTC time the record was built, in milliseconds since the epoch.
	Timestamp int64
	// Level is the level the record was logged at.
	Level Level
	// Data is the compact JSON payload of the record. It is always a valid JSON document.
	Data []byte
}

//nolint:gochecknoglobals // shared codec and parser pool
var (
	jsonAPI    = jsoniter.ConfigCompatibleWithStandardLibrary
	parserPool fastjson.ParserPool
)

// NormalizeText builds a record from a text payload. Text that is valid JSON becomes the record
// data as-is, anything else is stored as a JSON string.
func NormalizeText(level Level, text string) Record {
	return normalizeText(time.Now, level, text)
}

// NormalizeValue builds a record whose data is the JSON encoding of v.
func NormalizeValue(level Level, v any) (Record, error) {
	return normalizeValue(time.Now, level, v)
}

// MustNormalizeValue is like NormalizeValue but panics if v cannot be encoded.
func MustNormalizeValue(level Level, v any) Record {
	rec, err := NormalizeValue(level, v)
	if err != nil {
		panic(err)
	}
	return rec
}

func normalizeText(now func() time.Time, level Level, text string) Record {
	return Record{
		Timestamp: epochMillis(now),
		Level:     level,
		Data:      textData(text),
	}
}

func normalizeValue(now func() time.Time, level Level, v any) (Record, error) {
	ts := epochMillis(now)

	data, err := jsonAPI.Marshal(v)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %T: %w", ErrNotSerializable, v, err)
	}

	return Record{
		Timestamp: ts,
		Level:     level,
		Data:      data,
	}, nil
}

func textData(text string) []byte {
	// Parse accepts number-like runs such as 2024-01-01 or NaN; Validate is strict.
	if fastjson.Validate(text) == nil {
		p := parserPool.Get()
		defer parserPool.Put(p)

		if v, err := p.Parse(text); err == nil {
			return v.MarshalTo(nil)
		}
	}

	// Encoding a string cannot fail.
	data, _ := jsonAPI.Marshal(text)
	return data
}

func epochMillis(now func() time.Time) int64 {
	return now().UTC().UnixMilli()
}
