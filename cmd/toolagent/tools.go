package main

import (
	"fmt"
)

// ToolsCmd prints the catalog of the enabled tools,
// in the form used in the agent prompt.
type ToolsCmd struct {
	Format string `long:"format" default:"text" choice:"text" choice:"json" choice:"yaml" choice:"toml" description:"output format"`

	app *app
}

func (c *ToolsCmd) Execute(_ []string) error {
	cfg, err := c.app.loadConfig()
	if err != nil {
		return err
	}
	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	list := registry.Descriptors()
	if c.Format != formatText {
		return printEncoded(c.app.stdout, c.Format, catalog{Tools: list})
	}
	if len(list) == 0 {
		fmt.Fprintln(c.app.stdout, "No tools available.")
		return nil
	}
	for _, d := range list {
		fmt.Fprintln(c.app.stdout, d.String())
	}
	return nil
}
