package log

import (
	"io"

	"gopkg.in/Sirupsen/logrus.v0"
)

type Level uint8

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

var disabled bool

// Disable turns off all logging, whatever the per-module masks say.
func Disable() {
	disabled = true
	logrus.SetOutput(io.Discard)
}

func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

func init() {
	logrus.SetLevel(logrus.DebugLevel)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
}
