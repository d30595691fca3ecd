// Package config reads server settings from flags, falling back to
// CHESSBOT_* environment variables and then to built-in defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr          string
	AllowOrigins  string
	DefaultDepth  int
	MaxDepth      int
	ClockTime     time.Duration
	MatchInterval time.Duration
}

func Default() Config {
	return Config{
		Addr:          ":3000",
		AllowOrigins:  "http://localhost:5173",
		DefaultDepth:  3,
		MaxDepth:      5,
		ClockTime:     10 * time.Minute,
		MatchInterval: time.Second,
	}
}

// Load parses args (without the program name). lookup supplies environment
// values; pass os.LookupEnv in production.
func Load(args []string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if err := fromEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.AllowOrigins, "origins", cfg.AllowOrigins, "comma separated CORS origins")
	fs.IntVar(&cfg.DefaultDepth, "depth", cfg.DefaultDepth, "default engine search depth")
	fs.IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "maximum engine search depth a client may request")
	fs.DurationVar(&cfg.ClockTime, "clock", cfg.ClockTime, "initial clock time per player")
	fs.DurationVar(&cfg.MatchInterval, "match-interval", cfg.MatchInterval, "matchmaking interval")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func LoadFromOS() (Config, error) {
	return Load(os.Args[1:], os.LookupEnv)
}

func fromEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("CHESSBOT_ADDR"); ok {
		cfg.Addr = v
	}
	if v, ok := lookup("CHESSBOT_ORIGINS"); ok {
		cfg.AllowOrigins = v
	}
	for key, dst := range map[string]*int{
		"CHESSBOT_DEPTH":     &cfg.DefaultDepth,
		"CHESSBOT_MAX_DEPTH": &cfg.MaxDepth,
	} {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("config: %s: %w", key, err)
			}
			*dst = n
		}
	}
	for key, dst := range map[string]*time.Duration{
		"CHESSBOT_CLOCK":          &cfg.ClockTime,
		"CHESSBOT_MATCH_INTERVAL": &cfg.MatchInterval,
	} {
		if v, ok := lookup(key); ok {
			d, err := time.ParseDuration(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("config: %s: %w", key, err)
			}
			*dst = d
		}
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.DefaultDepth < 1 {
		errs = append(errs, errors.New("config: depth must be at least 1"))
	}
	if c.MaxDepth < c.DefaultDepth {
		errs = append(errs, errors.New("config: max-depth must not be below depth"))
	}
	if c.ClockTime <= 0 {
		errs = append(errs, errors.New("config: clock must be positive"))
	}
	if c.MatchInterval <= 0 {
		errs = append(errs, errors.New("config: match-interval must be positive"))
	}
	return errors.Join(errs...)
}
