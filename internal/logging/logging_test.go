package logging

import (
	"testing"

	"github.com/tliron/commonlog"
)

func TestConfigureVerbosity(t *testing.T) {
	defer Configure(0, "")

	Configure(2, "")
	if !GetLogger("lox.vm").AllowLevel(commonlog.Debug) {
		t.Error("verbosity 2 should allow debug")
	}

	Configure(-1, "")
	if GetLogger("lox.vm").AllowLevel(commonlog.Info) {
		t.Error("verbosity -1 should not allow info")
	}
}
