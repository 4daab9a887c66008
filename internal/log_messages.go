package internal

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// LogPrefix starts every line written by the default loggers.
const LogPrefix = "[Mendel] "

// NewDefaultLoggers returns loggers like ldlog.NewDefaultLoggers, but writing to out with the Mendel
// prefix.
func NewDefaultLoggers(out io.Writer) ldlog.Loggers {
	loggers := ldlog.NewDefaultLoggers()
	loggers.SetBaseLogger(log.New(out, LogPrefix, log.LstdFlags))
	return loggers
}

// These messages are written directly to os.Stderr because they are for conditions where no configured
// ldlog.Loggers is available yet.

// LogErrorNilPointerMethod prints a message to os.Stderr to indicate that the application tried to call
// a method on a nil pointer receiver.
func LogErrorNilPointerMethod(typeName string) {
	fmt.Fprintf(os.Stderr, LogPrefix+"ERROR: tried to call a method on a nil pointer of type *%s\n", typeName)
}
