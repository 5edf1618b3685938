package autostart

import (
	"fmt"
	"runtime"
)

var ErrUnsupported = fmt.Errorf("autostart is not supported on %s", runtime.GOOS)
