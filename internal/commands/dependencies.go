package commands

import (
	"io"
	"os"
	"os/signal"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/coodar/dscli/internal/api"
	"github.com/coodar/dscli/internal/config"
	"github.com/coodar/dscli/internal/interrupt"
	"github.com/coodar/dscli/internal/session"
)

// Dependencies holds the external dependencies of the chat command.
// Tests replace them to run the whole command without a terminal or a
// network.
type Dependencies struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Interactive is set when stdin and stdout are terminals. It enables
	// the model picker, the spinner and colors.
	Interactive bool

	Getenv     func(string) string
	Prompter   config.KeyPrompter
	Console    interrupt.Console
	LoadConfig func() (config.Config, error)
	Clipboard  func(string) error

	// NewCompleter creates the completion client and the function that
	// releases it.
	NewCompleter func(apiKey string, cfg config.Config, logger zerolog.Logger) (session.Completer, func(), error)

	// Signals returns the interrupt channel and the function that stops
	// delivery.
	Signals func() (<-chan os.Signal, func())
}

// NewDependencies creates the production dependencies
func NewDependencies() *Dependencies {
	interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))

	deps := &Dependencies{
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Interactive:  interactive,
		Getenv:       os.Getenv,
		Console:      interrupt.NewStdConsole(),
		LoadConfig:   config.LoadConfig,
		Clipboard:    clipboard.WriteAll,
		NewCompleter: newAPICompleter,
		Signals:      notifyInterrupt,
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		deps.Prompter = config.TerminalPrompter{In: os.Stdin, Out: os.Stderr}
	}
	return deps
}

func newAPICompleter(apiKey string, cfg config.Config, logger zerolog.Logger) (session.Completer, func(), error) {
	client, err := api.NewClient(apiKey,
		api.WithBaseURL(cfg.BaseURL),
		api.WithTimeout(cfg.Timeout()),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

func notifyInterrupt() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	return ch, func() { signal.Stop(ch) }
}
