package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// commandReset clears the conversation log.
const commandReset = "/reset"

// processor answers a user input.
type processor interface {
	ProcessInput(ctx context.Context, input string) (string, error)
	Reset(ctx context.Context) error
}

// shell is the interactive read loop.
type shell struct {
	agent processor
	in    io.Reader
	out   io.Writer
}

// Run reads the user inputs until "quit" or the end of input.
// A failed turn is printed and the loop continues.
func (s *shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Agent initialized. Type 'quit' to exit.")

	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(s.out, "\nYou: ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out, "\nGoodbye!")
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(input, "quit") {
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		}
		if strings.EqualFold(input, commandReset) {
			if err := s.agent.Reset(ctx); err != nil {
				fmt.Fprintf(s.out, "\nError: %s\n", err.Error())
			} else {
				fmt.Fprintln(s.out, "\nConversation cleared.")
			}
			continue
		}

		answer, err := s.agent.ProcessInput(ctx, input)
		if err != nil {
			fmt.Fprintf(s.out, "\nError: %s\n", err.Error())
			continue
		}
		fmt.Fprintf(s.out, "\nAgent: %s\n", answer)
	}
}
