package statsd

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// Config is the environment driven statsd configuration. It is decoded once
// at process start with envdecode and then passed around explicitly.
type Config struct {
	Host          string        `env:"STATSD_HOST,default=localhost"`
	Port          int           `env:"STATSD_PORT,default=8125"`
	Prefix        string        `env:"STATSD_PREFIX,default=sprockets"`
	UseHostname   Flag          `env:"STATSD_USE_HOSTNAME,default=true"`
	FlushInterval time.Duration `env:"STATSD_FLUSH_INTERVAL,default=1s"`
}

// Addr returns the host:port of the statsd daemon.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Flag is a boolean setting decoded permissively: anything that isn't
// recognizably false is true. The zero Flag is unset.
type Flag uint8

const (
	flagUnset Flag = iota
	flagFalse
	flagTrue
)

// NewFlag returns a Flag explicitly set to v.
func NewFlag(v bool) Flag {
	if v {
		return flagTrue
	}
	return flagFalse
}

// Decode implements envdecode.Decoder. It never fails.
func (f *Flag) Decode(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "f", "false", "n", "no", "off":
		*f = flagFalse
	default:
		*f = flagTrue
	}
	return nil
}

// Bool returns the flag's value, or def when it was never set.
func (f Flag) Bool(def bool) bool {
	if f == flagUnset {
		return def
	}
	return f == flagTrue
}

// IsSet reports whether the flag was set.
func (f Flag) IsSet() bool { return f != flagUnset }
