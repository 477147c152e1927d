// Command toolagent is an interactive agent that answers with a language model
// and the tools the model requests.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/jessevdk/go-flags"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolagent", "cmd")

func main() {
	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
	xlog.SetGlobalLogLevel(xlog.WARNING)

	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, ferr.Message)
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		os.Exit(1)
	}
}

// run parses the arguments and executes the selected command.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	env := &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
	opts := &Options{}
	env.opts = opts

	opts.Init(commandArg(args), env)

	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	_, err := parser.ParseArgs(args)
	return err
}

// commandArg returns the first positional argument,
// skipping the value of -f/--config.
func commandArg(args []string) string {
	for i := 0; i < len(args); i++ {
		switch a := args[i]; {
		case a == "-f" || a == "--config":
			i++
		case a == "--":
			return ""
		case !strings.HasPrefix(a, "-"):
			return a
		}
	}
	return ""
}
