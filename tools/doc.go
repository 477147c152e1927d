// Package tools defines the Tool interface for the agent and the registry of available tools.
// A tool is a named capability provider invoked with positional text arguments,
// it enables the agent to interact with external systems and APIs.
package tools
