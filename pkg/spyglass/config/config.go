package config

import "time"

// Config holds flat dotted-key settings ("tracker.attribute",
// "spy.registry"). Accessors never fail: an absent key or a value of the
// wrong type yields the caller's fallback.
type Config struct {
	data map[string]any
}

// New wraps data as a Config. Nil is treated as empty.
func New(data map[string]any) Config {
	if data == nil {
		data = map[string]any{}
	}
	return Config{data: data}
}

// Has reports whether key is present.
func (c Config) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// String returns the value for key as a string, or fallback when the key is
// absent or holds something else.
func (c Config) String(key, fallback string) string {
	if s, ok := c.data[key].(string); ok {
		return s
	}
	return fallback
}

// Bool returns the value for key as a bool, or fallback when the key is
// absent or holds something else.
func (c Config) Bool(key string, fallback bool) bool {
	if b, ok := c.data[key].(bool); ok {
		return b
	}
	return fallback
}

// Duration returns the value for key as a time.Duration. Strings are parsed
// with time.ParseDuration; bare numbers are taken as seconds.
func (c Config) Duration(key string, fallback time.Duration) time.Duration {
	switch v := c.data[key].(type) {
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	case int:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
	}
	return fallback
}
