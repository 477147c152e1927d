package main

import (
	"context"
	"fmt"

	"github.com/effective-security/toolagent/agent"
	"github.com/effective-security/toolagent/callbacks"
	"github.com/effective-security/toolagent/chatmodel"
	"github.com/effective-security/x/values"
)

// ChatCmd runs the interactive shell, or a single turn with --once.
type ChatCmd struct {
	Once   string `long:"once" description:"answer a single input and exit"`
	ChatID string `long:"chat-id" description:"chat ID of the conversation log, a new ID when empty"`
	Stats  bool   `long:"stats" description:"print the run statistics to stderr on exit"`

	app *app
}

func (c *ChatCmd) Execute(_ []string) error {
	cfg, err := c.app.loadConfig()
	if err != nil {
		return err
	}

	chatID := values.StringsCoalesce(c.ChatID, chatmodel.NewChatID())
	ctx := chatmodel.WithChatContext(context.Background(), chatmodel.NewChatContext(chatID, nil))

	fanout := callbacks.NewFanout(callbacks.NewPackageLogger(logger))
	if c.app.opts.Verbose {
		fanout.Add(callbacks.NewPrinter(c.app.stderr, callbacks.ModeVerbose))
	}
	var scratchpad *callbacks.Scratchpad
	if c.Stats {
		scratchpad = callbacks.NewScratchpad(callbacks.ModeDefault)
		fanout.Add(scratchpad)
		scratchpad.StartRun(ctx)
	}

	ag, closer, err := buildAgent(ctx, cfg, fanout)
	if err != nil {
		return err
	}
	defer closer()

	if c.Once != "" {
		err = c.once(ctx, ag)
	} else {
		sh := &shell{agent: ag, in: c.app.stdin, out: c.app.stdout}
		err = sh.Run(ctx)
	}

	if scratchpad != nil {
		if _, trace := scratchpad.EndRun(ctx); len(trace) > 0 {
			_, _ = c.app.stderr.Write(trace)
		}
	}
	return err
}

func (c *ChatCmd) once(ctx context.Context, ag *agent.Agent) error {
	answer, err := ag.ProcessInput(ctx, c.Once)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.app.stdout, answer)
	return nil
}
