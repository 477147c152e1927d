// Package toolcall implements the text protocol the model uses to request tool invocations.
//
// The model asks for tools with lines of the form:
//
//	USE_TOOL: <tool name> | <arg1>, <arg2>, ...
//	THEN: <free-text next-step description>
//
// Parse recovers the ordered call sequence from free model output,
// and Executor runs the sequence against a tools.Registry,
// isolating the failure of one request from the others.
package toolcall
