package main

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolagent/toolcall"
)

// ParseCmd prints the tool requests recovered from model output read from stdin.
type ParseCmd struct {
	Format string `long:"format" default:"text" choice:"text" choice:"json" choice:"yaml" choice:"toml" description:"output format"`

	app *app
}

func (c *ParseCmd) Execute(_ []string) error {
	b, err := io.ReadAll(c.app.stdin)
	if err != nil {
		return errors.Wrap(err, "failed to read input")
	}

	reqs := toolcall.ParseOutput(string(b))
	if c.Format != formatText {
		if reqs == nil {
			reqs = []toolcall.Request{}
		}
		return printEncoded(c.app.stdout, c.Format, requestList{Requests: reqs})
	}
	if len(reqs) == 0 {
		fmt.Fprintln(c.app.stdout, "no tool requests")
		return nil
	}
	fmt.Fprintln(c.app.stdout, toolcall.FormatRequests(reqs))
	return nil
}
