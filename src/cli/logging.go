// Package cli contains the singleton logger and flag-parsing helpers
// shared by every zz command.
package cli

import (
	"os"

	"github.com/thought-machine/go-flags"
	logging "gopkg.in/op/go-logging.v1"
)

// Log is the singleton logger instance used throughout zz. We never
// alter individual module levels, so there is no need for more than one.
var Log = logging.MustGetLogger("zz")

// Re-exports of the levels callers are allowed to set via -v.
const (
	CRITICAL = logging.CRITICAL
	ERROR    = logging.ERROR
	WARNING  = logging.WARNING
	NOTICE   = logging.NOTICE
	INFO     = logging.INFO
	DEBUG    = logging.DEBUG
)

// InitLogging wires the singleton logger to stderr at the given verbosity.
func InitLogging(verbosity logging.Level, quiet bool) {
	level := verbosity
	if quiet {
		level = logging.ERROR
	}
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatter := logging.MustStringFormatter(`%{time:15:04:05.000} %{level:7s}: %{message}`)
	formatted := logging.NewBackendFormatter(backend, formatter)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
}

// ParseArgsOrDie parses os.Args into data (a struct of go-flags tags,
// including `command:"..."`-tagged subcommand fields). On --help it
// prints usage and exits 0; on any other parse error, or when no
// subcommand was given, it prints usage and exits 1. It returns the
// name of the subcommand the user invoked and any leftover positional
// arguments past it.
func ParseArgsOrDie(appname string, data interface{}) (command string, extra []string) {
	parser := flags.NewNamedParser(appname, flags.HelpFlag|flags.PassDoubleDash)
	parser.AddGroup(appname+" options", "", data)
	extra, err := parser.ParseArgs(os.Args[1:])
	if err != nil {
		if ferr, ok := err.(*flags.Error); ok && ferr.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
			os.Exit(0)
		}
		parser.WriteHelp(os.Stderr)
		Log.Errorf("%s", err)
		os.Exit(1)
	}
	if parser.Active == nil {
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}
	return parser.Active.Name, extra
}
