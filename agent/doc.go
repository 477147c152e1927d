// Package agent runs the conversational turn cycle: it logs the user input,
// asks the model for an answer, executes the tool requests the model emits
// with the USE_TOOL/THEN protocol, asks the model to summarize the results,
// and logs the final answer.
package agent
