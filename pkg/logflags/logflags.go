package logflags

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	breakpoints = false
	driver      = false
	shell       = false

	mu     sync.Mutex
	logOut io.Writer
)

func makeLogger(flag bool, fields logrus.Fields) *logrus.Entry {
	logger := logrus.New().WithFields(fields)
	logger.Logger.Out = output()
	logger.Logger.Level = logrus.DebugLevel
	if !flag {
		// warnings and errors are always reported
		logger.Logger.Level = logrus.WarnLevel
	}
	return logger
}

func output() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	if logOut != nil {
		return logOut
	}
	if isatty.IsTerminal(os.Stderr.Fd()) {
		return colorable.NewColorableStderr()
	}
	return os.Stderr
}

// SetOutput redirects every logger created afterwards to w, nil restores
// the default of stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	logOut = w
	mu.Unlock()
}

// Breakpoints returns true if breakpoint and watchpoint bookkeeping should
// be logged.
func Breakpoints() bool {
	return breakpoints
}

// BreakpointsLogger returns a logger for the breakpoint registries and the
// SMP coordinator.
func BreakpointsLogger() *logrus.Entry {
	return makeLogger(breakpoints, logrus.Fields{"layer": "breakpoints"})
}

// Driver returns true if the target driver should log.
func Driver() bool {
	return driver
}

// DriverLogger returns a logger for target drivers.
func DriverLogger() *logrus.Entry {
	return makeLogger(driver, logrus.Fields{"layer": "driver"})
}

// Shell returns true if the interactive shell should log.
func Shell() bool {
	return shell
}

// ShellLogger returns a logger for the interactive shell.
func ShellLogger() *logrus.Entry {
	return makeLogger(shell, logrus.Fields{"layer": "shell"})
}

var errLogstrWithoutLog = errors.New("--log-output specified without --log")

// Setup sets the logging layers based on the contents of logstr.
func Setup(logFlag bool, logstr string) error {
	breakpoints, driver, shell = false, false, false
	if !logFlag {
		if logstr != "" {
			return errLogstrWithoutLog
		}
		return nil
	}
	if logstr == "" {
		logstr = "breakpoints"
	}
	for _, layer := range strings.Split(logstr, ",") {
		switch strings.TrimSpace(layer) {
		case "breakpoints":
			breakpoints = true
		case "driver":
			driver = true
		case "shell":
			shell = true
		default:
			return errors.New("unknown log layer: " + layer)
		}
	}
	return nil
}
