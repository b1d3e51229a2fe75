package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coodar/dscli/internal/api"
	"github.com/coodar/dscli/internal/config"
	apierrors "github.com/coodar/dscli/internal/errors"
	"github.com/coodar/dscli/internal/models"
	"github.com/coodar/dscli/internal/session"
)

type testEnv struct {
	deps     *Dependencies
	client   *api.MockClient
	stdout   *bytes.Buffer
	released bool
	gotKey   string
	gotCfg   config.Config
}

func newTestEnv(input string, results ...api.MockResult) *testEnv {
	env := &testEnv{client: api.NewMockClient(results...), stdout: &bytes.Buffer{}}
	env.deps = &Dependencies{
		Stdin:  strings.NewReader(input),
		Stdout: env.stdout,
		Stderr: io.Discard,
		Getenv: func(k string) string {
			if k == config.APIKeyEnv {
				return "sk-test"
			}
			return ""
		},
		LoadConfig: func() (config.Config, error) { return config.DefaultConfig(), nil },
		NewCompleter: func(apiKey string, cfg config.Config, _ zerolog.Logger) (session.Completer, func(), error) {
			env.gotKey = apiKey
			env.gotCfg = cfg
			return env.client, func() { env.released = true }, nil
		},
	}
	return env
}

func TestRunChat_Conversation(t *testing.T) {
	env := newTestEnv("hello\n/quit\n", api.MockResult{
		Chunks: []models.DeltaChunk{{Content: "Hi "}, {Content: "there"}},
	})

	err := runChat(context.Background(), env.deps, chatFlags{})
	require.NoError(t, err)

	assert.Equal(t, "sk-test", env.gotKey)
	assert.True(t, env.released, "client must be released")
	require.Equal(t, 1, env.client.CallCount())

	req := env.client.Calls[0]
	assert.Equal(t, models.ModelChat, req.Model)
	assert.Equal(t, "hello", req.Messages[0].Content)

	out := env.stdout.String()
	assert.Contains(t, out, "Hi there")
	assert.Contains(t, out, "Goodbye!")
}

func TestRunChat_FlagsOverrideConfig(t *testing.T) {
	env := newTestEnv("question\n/quit\n", api.MockResult{
		Completion: &models.Completion{Content: "answer", Reasoning: "thought"},
	})

	flags := chatFlags{
		model:          models.ModelReasoner,
		modelSet:       true,
		temperature:    0.1,
		temperatureSet: true,
		noStream:       true,
	}
	require.NoError(t, runChat(context.Background(), env.deps, flags))

	assert.Equal(t, models.ModelReasoner, env.gotCfg.DefaultModel)
	assert.False(t, env.gotCfg.Stream)

	require.Equal(t, 1, env.client.CallCount())
	req := env.client.Calls[0]
	assert.Equal(t, models.ModelReasoner, req.Model)
	assert.InDelta(t, 0.1, req.Temperature, 1e-9)

	out := env.stdout.String()
	assert.Contains(t, out, "thought")
	assert.Contains(t, out, "answer")
}

func TestRunChat_ModelPromptSelect(t *testing.T) {
	env := newTestEnv("/model\n2\nhi\n/quit\n", api.MockResult{Completion: &models.Completion{Content: "ok"}})

	require.NoError(t, runChat(context.Background(), env.deps, chatFlags{noStream: true}))

	require.Equal(t, 1, env.client.CallCount())
	assert.Equal(t, models.ModelReasoner, env.client.Calls[0].Model)
	assert.Contains(t, env.stdout.String(), "Switched to model: DeepSeek Reasoner")
}

// loggingCompleter logs each call through the request logger, as the API
// client does, before answering from the mock
type loggingCompleter struct {
	*api.MockClient
}

func (c loggingCompleter) Complete(ctx context.Context, req api.ChatRequest) (*models.Completion, error) {
	if req.Logger != nil {
		req.Logger.Debug().Str("model", req.Model).Msg("sending completion request")
	}
	return c.MockClient.Complete(ctx, req)
}

func TestRunChat_DebugReachesClient(t *testing.T) {
	env := newTestEnv("first\n/debug\nsecond\n/quit\n",
		api.MockResult{Completion: &models.Completion{Content: "one"}},
		api.MockResult{Completion: &models.Completion{Content: "two"}},
	)
	var stderr bytes.Buffer
	env.deps.Stderr = &stderr
	env.deps.NewCompleter = func(string, config.Config, zerolog.Logger) (session.Completer, func(), error) {
		return loggingCompleter{env.client}, func() {}, nil
	}

	require.NoError(t, runChat(context.Background(), env.deps, chatFlags{noStream: true}))

	require.Equal(t, 2, env.client.CallCount())
	assert.Contains(t, env.stdout.String(), "Debug mode enabled")
	assert.Equal(t, 1, strings.Count(stderr.String(), "sending completion request"),
		"only the request sent after /debug should be logged: %q", stderr.String())
}

func TestRunChat_Clipboard(t *testing.T) {
	env := newTestEnv("hi\n/quit\n", api.MockResult{Completion: &models.Completion{Content: "copied"}})
	env.deps.LoadConfig = func() (config.Config, error) {
		cfg := config.DefaultConfig()
		cfg.CopyToClipboard = true
		cfg.Stream = false
		return cfg, nil
	}
	var clip string
	env.deps.Clipboard = func(s string) error {
		clip = s
		return nil
	}

	require.NoError(t, runChat(context.Background(), env.deps, chatFlags{}))
	assert.Equal(t, "copied", clip)
}

func TestRunChat_SignalsStopped(t *testing.T) {
	env := newTestEnv("/quit\n", api.MockResult{Completion: &models.Completion{Content: "x"}})
	stopped := false
	env.deps.Signals = func() (<-chan os.Signal, func()) {
		return make(chan os.Signal), func() { stopped = true }
	}

	require.NoError(t, runChat(context.Background(), env.deps, chatFlags{}))
	assert.True(t, stopped)
}

func TestRunChat_StartupFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(env *testEnv)
		flags   chatFlags
		wantErr string
		is      error
	}{
		{
			name: "no key and no prompter",
			mutate: func(env *testEnv) {
				env.deps.Getenv = func(string) string { return "" }
			},
			is: apierrors.ErrNoAPIKey,
		},
		{
			name:    "unknown model flag",
			flags:   chatFlags{model: "gpt-4", modelSet: true},
			wantErr: "invalid settings",
		},
		{
			name:    "temperature out of range",
			flags:   chatFlags{temperature: 3, temperatureSet: true},
			wantErr: "temperature",
		},
		{
			name: "config load fails",
			mutate: func(env *testEnv) {
				env.deps.LoadConfig = func() (config.Config, error) {
					return config.DefaultConfig(), errors.New("corrupt")
				}
			},
			wantErr: "failed to load config",
		},
		{
			name: "client creation fails",
			mutate: func(env *testEnv) {
				env.deps.NewCompleter = func(string, config.Config, zerolog.Logger) (session.Completer, func(), error) {
					return nil, nil, errors.New("no transport")
				}
			},
			wantErr: "failed to create client",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv("/quit\n", api.MockResult{})
			if tt.mutate != nil {
				tt.mutate(env)
			}
			err := runChat(context.Background(), env.deps, tt.flags)
			require.Error(t, err)
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
			assert.Equal(t, 0, env.client.CallCount())
		})
	}
}

func TestChatFlagsFrom(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVarP(&modelFlag, "model", "m", "", "")
	cmd.Flags().Float64VarP(&temperatureFlag, "temperature", "t", 0, "")
	defer func() {
		modelFlag = ""
		temperatureFlag = 0
	}()

	require.NoError(t, cmd.Flags().Parse([]string{"-m", "deepseek-reasoner"}))
	f := chatFlagsFrom(cmd)
	assert.True(t, f.modelSet)
	assert.False(t, f.temperatureSet, "an unset temperature must not override the config")

	cfg := f.apply(config.DefaultConfig())
	assert.Equal(t, models.ModelReasoner, cfg.DefaultModel)
	assert.InDelta(t, 0.7, cfg.Temperature, 1e-9)
}

func TestVersionFlag(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--version"})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		_ = rootCmd.Flags().Set("version", "false")
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "dscli "+Version)
}
