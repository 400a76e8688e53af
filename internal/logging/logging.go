// Package logging configures commonlog for the lox tools and hands out
// named loggers. Log output goes to stderr or a file, never stdout.
package logging

import (
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

// Configure sets the global verbosity and log destination. Verbosity 0
// logs notices and above, 1 adds info, 2 adds debug; negative values are
// quieter. An empty path logs to stderr.
func Configure(verbosity int, path string) {
	if path == "" {
		commonlog.Configure(verbosity, nil)
		return
	}
	commonlog.Configure(verbosity, &path)
}

// GetLogger returns the logger registered under name.
func GetLogger(name string) commonlog.Logger {
	return commonlog.GetLogger(name)
}
