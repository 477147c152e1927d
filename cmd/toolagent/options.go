package main

// Options is the root command that groups sub-commands. The struct tags are
// interpreted by github.com/jessevdk/go-flags.
type Options struct {
	Config  string `short:"f" long:"config" description:"configuration YAML/JSON path"`
	Verbose bool   `short:"v" long:"verbose" description:"print turn, model and tool events to stderr"`

	Chat       *ChatCmd   `command:"chat" description:"Chat with the agent"`
	Tools      *ToolsCmd  `command:"tools" description:"List the enabled tools"`
	Parse      *ParseCmd  `command:"parse" description:"Parse tool requests from model output read from stdin"`
	Exec       *ExecCmd   `command:"exec" description:"Execute tool requests read from stdin"`
	ShowConfig *ConfigCmd `command:"config" description:"Print the effective configuration"`
}

// Init instantiates the sub-command referenced by the first argument so that
// flags.Parse can populate its fields.
func (o *Options) Init(firstArg string, env *app) {
	switch firstArg {
	case "chat":
		o.Chat = &ChatCmd{app: env}
	case "tools":
		o.Tools = &ToolsCmd{app: env}
	case "parse":
		o.Parse = &ParseCmd{app: env}
	case "exec":
		o.Exec = &ExecCmd{app: env}
	case "config":
		o.ShowConfig = &ConfigCmd{app: env}
	}
}
