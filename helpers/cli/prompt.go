// Package cli runs line-oriented interactive tools.
// Terminal stdin gets go-prompt with completion, piped stdin is executed line by line.
package cli

import (
	"bufio"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/c-bata/go-prompt"
	"github.com/mattn/go-isatty"
)

type ExecFunc func(line string)
type CompleteFunc func(d prompt.Document) []prompt.Suggest

func MainLoop(tag string, exec ExecFunc, complete CompleteFunc) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	go func() {
		for range signalCh {
			os.Exit(1)
		}
	}()

	if isatty.IsTerminal(os.Stdin.Fd()) {
		prompt.New(prompt.Executor(exec), prompt.Completer(complete),
			prompt.OptionPrefix(tag+"> "),
			prompt.OptionTitle(tag),
		).Run()
	} else {
		ExecReader(os.Stdin, exec)
	}
}

// ExecReader feeds each non-empty trimmed line of r to exec.
func ExecReader(r io.Reader, exec ExecFunc) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		exec(line)
	}
}

// SuggestPrefix filters static suggestions by the word before cursor.
func SuggestPrefix(d prompt.Document, all []prompt.Suggest) []prompt.Suggest {
	return prompt.FilterHasPrefix(all, d.GetWordBeforeCursor(), true)
}
