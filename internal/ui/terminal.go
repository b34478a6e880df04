package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	PromptText     = "Paste YouTube video URL: "
	FailureMessage = "❌ Could not fetch transcript."
)

type terminalUI struct {
	reader *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

// NewTerminal lit stdin et écrit sur stdout / stderr.
func NewTerminal() Interface {
	return NewTerminalWith(os.Stdin, os.Stdout, os.Stderr)
}

// NewTerminalWith permet d'injecter les flux (tests).
func NewTerminalWith(in io.Reader, out, errOut io.Writer) Interface {
	return &terminalUI{reader: bufio.NewReader(in), out: out, errOut: errOut}
}

type lineResult struct {
	line string
	err  error
}

func (t *terminalUI) PromptURL(ctx context.Context) (string, error) {
	fmt.Fprint(t.out, PromptText)

	// la lecture de stdin n'est pas annulable : on l'isole pour rendre la main sur ctx.Done
	ch := make(chan lineResult, 1)
	go func() {
		line, err := t.reader.ReadString('\n')
		ch <- lineResult{line, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		// EOF sans retour à la ligne : la dernière ligne reste valable
		if r.err != nil && !(errors.Is(r.err, io.EOF) && r.line != "") {
			return "", fmt.Errorf("lecture stdin: %w", r.err)
		}
		return strings.TrimSpace(r.line), nil
	}
}

// PrintTranscript : l'en-tête est suivi d'une ligne vide.
func (t *terminalUI) PrintTranscript(ctx context.Context, n int, preview string) {
	fmt.Fprintf(t.out, "\nTranscript (first %d chars):\n\n%s\n", n, preview)
}

func (t *terminalUI) PrintFailure(ctx context.Context) {
	fmt.Fprintln(t.out, FailureMessage)
}

func (t *terminalUI) PrintInfo(ctx context.Context, s string) {
	fmt.Fprintln(t.out, s)
}

func (t *terminalUI) PrintError(ctx context.Context, s string) {
	fmt.Fprintln(t.errOut, s)
}
