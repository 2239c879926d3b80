package catalog

import "time"

// DeriveEvent describes one derivation run for logging.
type DeriveEvent struct {
	Name     string
	Rule     Rule
	From     string
	Duration time.Duration
	Err      error
}

// Logger records derivation events.
type Logger interface {
	LogDerive(DeriveEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(DeriveEvent)

// LogDerive implements Logger.
func (f LoggerFunc) LogDerive(event DeriveEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogDerive(DeriveEvent) {}
