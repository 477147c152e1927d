package main

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolagent/callbacks"
	"github.com/effective-security/toolagent/chatmodel"
	"github.com/effective-security/toolagent/toolcall"
)

// ExecCmd executes the tool requests read from stdin with the enabled tools,
// without querying the model.
type ExecCmd struct {
	Format string `long:"format" default:"text" choice:"text" choice:"json" choice:"yaml" choice:"toml" description:"input format"`

	app *app
}

func (c *ExecCmd) Execute(_ []string) error {
	cfg, err := c.app.loadConfig()
	if err != nil {
		return err
	}
	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	b, err := io.ReadAll(c.app.stdin)
	if err != nil {
		return errors.Wrap(err, "failed to read input")
	}
	reqs, err := decodeRequests(c.Format, b)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		fmt.Fprintln(c.app.stdout, "no tool requests")
		return nil
	}

	fanout := callbacks.NewFanout(callbacks.NewPackageLogger(logger))
	if c.app.opts.Verbose {
		fanout.Add(callbacks.NewPrinter(c.app.stderr, callbacks.ModeVerbose))
	}

	ctx := chatmodel.WithChatContext(context.Background(), chatmodel.NewChatContext(chatmodel.NewChatID(), nil))
	executor := toolcall.NewExecutor(registry, toolcall.WithCallback(fanout))
	fmt.Fprintln(c.app.stdout, executor.Execute(ctx, reqs))
	return nil
}
