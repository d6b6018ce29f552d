// Copyright 2020 The SQLFlow Authors. All rights reserved.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Formatter selects how log lines are written.
type Formatter int

const (
	// TextFormatter is the logrus text formatter, fields unordered.
	TextFormatter Formatter = iota
	// OrderedTextFormatter writes the fields (not level or msg) sorted by key.
	OrderedTextFormatter
)

// InitLogger sets the output, the formatter and the level of the package logger.
// An unparsable level leaves logrus at info.
func InitLogger(filename string, f Formatter, level string) {
	setOutput(filename)
	if f == OrderedTextFormatter {
		logrus.SetFormatter(&orderedFieldsTextFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{})
	}
	ll, err := logrus.ParseLevel(level)
	if err != nil {
		ll = logrus.InfoLevel
	}
	logrus.SetLevel(ll)
}

// setOutput sets log output to filename globally.
// filename="/var/log/mlprims.log": write the log to a rotated file
// filename="": write the log to stderr
// filename="/dev/null": drop log messages
func setOutput(filename string) {
	filename = strings.Trim(filename, " ")
	switch filename {
	case "/dev/null":
		logrus.SetOutput(io.Discard)
	case "":
		logrus.SetOutput(os.Stderr)
	default:
		logrus.SetOutput(&lumberjack.Logger{
			Filename:   filename,
			MaxSize:    32, // megabytes
			MaxBackups: 16,
			MaxAge:     15, // days
			Compress:   true,
		})
	}
}

type orderedFieldsTextFormatter struct{}

func (f *orderedFieldsTextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}
	fmt.Fprintf(b, "%s %s msg=\"%s\"", entry.Time.Format("2006-01-02 15:04:05"), entry.Level.String(), entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := entry.Data[k]
		if _, ok := v.(string); ok {
			fmt.Fprintf(b, " %s=\"%s\"", k, v)
		} else {
			fmt.Fprintf(b, " %s=%v", k, v)
		}
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}
