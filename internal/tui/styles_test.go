package tui

import (
	"errors"
	"strings"
	"testing"

	apierrors "github.com/coodar/dscli/internal/errors"
	"github.com/coodar/dscli/internal/render"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		wants []string
	}{
		{"nil", nil, nil},
		{"plain", errors.New("boom"), []string{"boom"}},
		{
			name:  "api error with body",
			err:   apierrors.NewAPIErrorWithBody(500, "https://api.example.com/v1/chat/completions", "server error", "upstream failed"),
			wants: []string{"HTTP Status: 500", "Endpoint: https://api.example.com", "upstream failed"},
		},
		{"auth hint", apierrors.NewAuthError("invalid key"), []string{"DEEPSEEK_API_KEY"}},
		{"network hint", apierrors.NewNetworkError("send", "https://x", errors.New("refused")), []string{"internet connection"}},
		{"timeout hint", apierrors.NewTimeoutError("slow"), []string{"timed out"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatError(tt.err)
			if tt.err == nil {
				if got != "" {
					t.Errorf("FormatError(nil) = %q, want empty", got)
				}
				return
			}
			for _, want := range tt.wants {
				if !strings.Contains(got, want) {
					t.Errorf("FormatError() = %q, missing %q", got, want)
				}
			}
		})
	}
}

func TestApplyPalette(t *testing.T) {
	defer ApplyPalette(render.DefaultPalette)

	ApplyPalette(render.DraculaPalette)
	if colorAccent != render.DraculaPalette.Accent {
		t.Errorf("accent = %v, want %v", colorAccent, render.DraculaPalette.Accent)
	}
	if errorStyle.GetForeground() != render.DraculaPalette.Error {
		t.Error("error style not rebuilt")
	}
}
