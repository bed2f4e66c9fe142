// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the shared application logger
var Logger = logrus.New()

var once sync.Once

// Options controls logger initialization
type Options struct {
	Level   string
	File    string
	Service string
}

// Init configures Logger once. Output always goes to stdout; when a file is
// given it is also written there with size-based rotation.
func Init(opts Options) {
	once.Do(func() {
		var out io.Writer = os.Stdout
		if opts.File != "" {
			out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			})
		}
		Logger.SetOutput(out)
		Logger.SetFormatter(&logrus.JSONFormatter{})

		level, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			level = logrus.InfoLevel
		}
		Logger.SetLevel(level)

		if opts.Service != "" {
			Logger.AddHook(serviceHook{name: opts.Service})
		}

		Logger.WithField("file", opts.File).Info("Logger initialized")
	})
}

// serviceHook stamps every entry with the service name
type serviceHook struct {
	name string
}

func (h serviceHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h serviceHook) Fire(entry *logrus.Entry) error {
	entry.Data["service"] = h.name
	return nil
}
