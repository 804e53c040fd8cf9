package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
)

// confirm asks a yes/no question on out and reads the answer from in.
// Only "y" or "yes" confirm; end of input, an interrupt or ctx being
// cancelled all answer no.
func confirm(ctx context.Context, in io.Reader, out io.Writer, question string) bool {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	fmt.Fprintf(out, "%s [y/N] ", question)

	answer := make(chan string, 1)
	go func() {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !strings.HasSuffix(line, "\n") {
			line = ""
		}
		answer <- line
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(out)
		return false
	case line := <-answer:
		return isYes(line)
	}
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}
