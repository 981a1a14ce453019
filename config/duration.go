package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration is a wrapper type for time.Duration which provides
// human-friendly text (un)marshaling.
// See https://github.com/golang/go/issues/16039
type Duration time.Duration

// String returns the string representation of the duration.
func (d *Duration) String() string {
	return time.Duration(*d).String()
}

// UnmarshalJSON parses a duration from a JSON string or number of
// nanoseconds. The YAML layer routes through JSON, so this covers the
// config files too.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(dur)
	default:
		return fmt.Errorf("cannot parse duration from %s", b)
	}
	return nil
}

// MarshalJSON converts a duration to a JSON string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Set sets the duration from the given string.
// Implements the pflag.Value interface.
func (d *Duration) Set(raw string) error {
	dur, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// Type returns the name of this type.
// Implements the pflag.Value interface.
func (d *Duration) Type() string {
	return "duration"
}
