package commands

import (
	"fmt"

	"github.com/coodar/dscli/internal/tui"
)

// formatErrorMessage formats a startup error with the details carried by
// structured errors.
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}
	return tui.FormatError(fmt.Errorf("%s: %w", context, err))
}
