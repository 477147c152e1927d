package main

import "fmt"

// ConfigCmd prints the effective configuration.
type ConfigCmd struct {
	app *app
}

func (c *ConfigCmd) Execute(_ []string) error {
	cfg, err := c.app.loadConfig()
	if err != nil {
		return err
	}
	s, err := cfg.YAML()
	if err != nil {
		return err
	}
	fmt.Fprint(c.app.stdout, s)
	return nil
}
