// Package log is the structured logger of mlprims. It is a thin layer over logrus
// so every package logs with the same fields and formatter.
package log

import "github.com/sirupsen/logrus"

// Entry is the final or intermediate logging entry.
type Entry struct {
	*logrus.Entry
}

// Fields type, used to pass to WithFields.
type Fields = logrus.Fields

// WithFields returns an Entry carrying fields.
func WithFields(fields Fields) *Entry {
	return &Entry{logrus.WithFields(fields)}
}

// WithPackage returns an Entry tagged with the name of the logging package.
func WithPackage(name string) *Entry {
	return WithFields(Fields{"package": name})
}

// Infof logs a message at level Info.
func Infof(format string, args ...interface{}) {
	logrus.Infof(format, args...)
}

// Fatalf logs a message at level Fatal then the process exits with status 1.
func Fatalf(format string, args ...interface{}) {
	logrus.Fatalf(format, args...)
}

// DebugEnabled reports whether debug lines would be written.
func DebugEnabled() bool {
	return logrus.IsLevelEnabled(logrus.DebugLevel)
}
