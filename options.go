package nasc

import (
	"os"

	"github.com/rs/zerolog"
)

// Option is a function that configures a Nasc container.
type Option func(*Nasc) error

// WithLogger sets the logger used for registration, build-rule and
// resolution diagnostics. The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(n *Nasc) error {
		n.logger = logger
		n.customLogger = true
		return nil
	}
}

// WithDebug raises the container logger to debug level. Without WithLogger
// it writes human-readable output to stderr.
func WithDebug() Option {
	return func(n *Nasc) error {
		n.debug = true
		return nil
	}
}

// WithValidation makes BootProviders run Validate after every provider booted.
func WithValidation() Option {
	return func(n *Nasc) error {
		n.validateOnBoot = true
		return nil
	}
}

// WithBuildRules installs build rules at construction time, in order.
func WithBuildRules(rules ...BuildRule) Option {
	return func(n *Nasc) error {
		for _, rule := range rules {
			if err := n.AddBuildRule(rule); err != nil {
				return err
			}
		}
		return nil
	}
}

func (n *Nasc) finishLogger() {
	if !n.debug {
		return
	}
	if !n.customLogger {
		n.logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	n.logger = n.logger.Level(zerolog.DebugLevel)
}
