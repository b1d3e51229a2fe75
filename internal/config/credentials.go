package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	apierrors "github.com/coodar/dscli/internal/errors"
)

// APIKeyEnv is the only environment variable read by the client
const APIKeyEnv = "DEEPSEEK_API_KEY"

// KeyPrompter reads a credential interactively
type KeyPrompter interface {
	PromptKey(prompt string) (string, error)
}

// TerminalPrompter reads the key from a terminal without echo
type TerminalPrompter struct {
	In  *os.File
	Out io.Writer
}

// PromptKey prints prompt and reads one line with echo disabled. When In is
// not a terminal the line is read as-is.
func (p TerminalPrompter) PromptKey(prompt string) (string, error) {
	fmt.Fprint(p.Out, prompt)
	fd := int(p.In.Fd())
	if term.IsTerminal(fd) {
		key, err := term.ReadPassword(fd)
		fmt.Fprintln(p.Out)
		if err != nil {
			return "", fmt.Errorf("failed to read API key: %w", err)
		}
		return string(key), nil
	}

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return line, nil
}

// ResolveAPIKey returns the key from DEEPSEEK_API_KEY, or asks prompter when
// the variable is unset. A nil prompter means no interactive fallback.
func ResolveAPIKey(getenv func(string) string, prompter KeyPrompter) (string, error) {
	if key := strings.TrimSpace(getenv(APIKeyEnv)); key != "" {
		return key, nil
	}
	if prompter == nil {
		return "", fmt.Errorf("%w: set %s", apierrors.ErrNoAPIKey, APIKeyEnv)
	}

	key, err := prompter.PromptKey("Enter DeepSeek API key: ")
	if err != nil {
		return "", err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("%w: set %s or enter a key", apierrors.ErrNoAPIKey, APIKeyEnv)
	}
	return key, nil
}
