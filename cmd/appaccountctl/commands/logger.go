package commands

import (
	"io"

	"github.com/goliatone/go-logger/glog"
)

// newLogger builds the CLI logger. Fatal only logs; the command decides how
// to exit.
func newLogger(w io.Writer, level string, format string) *glog.BaseLogger {
	opts := []glog.Option{
		glog.WithWriter(w),
		glog.WithLevel(level),
		glog.WithName("appaccountctl"),
		glog.WithFatalBehavior(glog.FatalBehaviorLogOnly),
	}
	if format == "json" {
		opts = append(opts, glog.WithLoggerTypeJSON())
	} else {
		opts = append(opts, glog.WithLoggerTypeConsole())
	}
	return glog.NewLogger(opts...)
}
