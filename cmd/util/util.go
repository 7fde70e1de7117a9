package util

import (
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"

	"github.com/gddload/gddload/pkg/errors"
)

// HandleFatalError prints the given error and exits. Friendly errors are
// printed verbatim, without log formatting, since their message is meant for
// the user rather than for debugging.
func HandleFatalError(err error) {
	if _, ok := errors.RootCause(err).(errors.FriendlyError); ok {
		fmt.Fprintln(os.Stderr, errors.GetPrintableMessage(err))
	} else {
		log.WithError(err).Error("Fatal error")
	}
	os.Exit(1)
}

// HandlePanic recovers panics so that they're logged before the process
// exits. It should be deferred at the top of the main goroutine.
func HandlePanic() {
	if r := recover(); r != nil {
		log.Errorf("Panic: %v\n%s", r, debug.Stack())
		os.Exit(1)
	}
}
