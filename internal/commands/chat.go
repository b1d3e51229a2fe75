package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/coodar/dscli/internal/config"
	"github.com/coodar/dscli/internal/dispatch"
	"github.com/coodar/dscli/internal/interrupt"
	"github.com/coodar/dscli/internal/logging"
	"github.com/coodar/dscli/internal/render"
	"github.com/coodar/dscli/internal/repl"
	"github.com/coodar/dscli/internal/retry"
	"github.com/coodar/dscli/internal/session"
	"github.com/coodar/dscli/internal/tui"
)

// chatFlags are the command line overrides of the config file
type chatFlags struct {
	model          string
	modelSet       bool
	temperature    float64
	temperatureSet bool
	noStream       bool
	debug          bool
}

func (f chatFlags) apply(cfg config.Config) config.Config {
	if f.modelSet {
		cfg.DefaultModel = f.model
	}
	if f.temperatureSet {
		cfg.Temperature = f.temperature
	}
	if f.noStream {
		cfg.Stream = false
	}
	return cfg
}

// runChat wires the session together and runs the REPL until it ends
func runChat(ctx context.Context, deps *Dependencies, flags chatFlags) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = flags.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	logger := logging.New(deps.Stderr, flags.debug)

	apiKey, err := config.ResolveAPIKey(deps.Getenv, deps.Prompter)
	if err != nil {
		return err
	}

	client, release, err := deps.NewCompleter(apiKey, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer release()

	state, err := session.NewState(session.Settings{
		Model:       cfg.DefaultModel,
		Temperature: cfg.Temperature,
		Stream:      cfg.Stream,
		Debug:       flags.debug,
		Models:      cfg.AvailableModels,
	}, logger)
	if err != nil {
		return err
	}

	palette, ok := render.PaletteByName(cfg.Theme)
	if !ok {
		logger.Warn().Str("theme", cfg.Theme).Msg("unknown theme, using the default")
		palette = render.DefaultPalette
	}
	painter := render.DetectPainter(deps.Stdout, palette)
	tui.ApplyPalette(palette)

	console := deps.Console
	sessOpts := []session.Option{
		session.WithOutput(deps.Stdout),
		session.WithPainter(painter),
		session.WithPolicy(retry.New(cfg.MaxRetries, cfg.RetryDelay())),
		session.WithMonitor(func(l zerolog.Logger) session.Monitor {
			return interrupt.Start(console, l)
		}),
	}
	if deps.Interactive {
		sessOpts = append(sessOpts, session.WithBusyIndicator(busyIndicator(deps.Stderr, "Waiting for reply")))
	}
	sess := session.New(client, state, sessOpts...)

	reader := repl.NewLineReader(deps.Stdin, deps.Stdout)
	defer reader.Close()

	var selector dispatch.ModelSelector = dispatch.PromptSelector{Reader: reader, Out: deps.Stdout, Painter: painter}
	if deps.Interactive {
		selector = tui.ModelPicker{}
	}
	disp := dispatch.New(state, sess,
		dispatch.WithSelector(selector),
		dispatch.WithOutput(deps.Stdout),
		dispatch.WithPainter(painter),
		dispatch.WithUnknownPolicy(cfg.UnknownCommandPolicy),
	)

	replOpts := []repl.Option{
		repl.WithOutput(deps.Stdout),
		repl.WithPainter(painter),
	}
	if deps.Interactive {
		replOpts = append(replOpts, repl.WithMarkdown(render.OptionsFromConfig(cfg.Markdown, terminalWidth(deps.Stdout))))
	}
	if cfg.CopyToClipboard && deps.Clipboard != nil {
		replOpts = append(replOpts, repl.WithClipboard(deps.Clipboard))
	}
	if deps.Signals != nil {
		sigs, stop := deps.Signals()
		defer stop()
		replOpts = append(replOpts, repl.WithSignals(sigs))
	}

	logger.Debug().
		Str("model", state.ActiveModel()).
		Float64("temperature", cfg.Temperature).
		Bool("stream", cfg.Stream).
		Str("base_url", cfg.BaseURL).
		Msg("starting chat session")

	return repl.New(sess, disp, reader, replOpts...).Run(ctx)
}

// terminalWidth returns the width of w when it is a terminal, or 80
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 80
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
