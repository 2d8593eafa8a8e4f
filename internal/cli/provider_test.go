package cli_test

import (
	"errors"
	"testing"

	"github.com/alnah/go-ytscribe/internal/cli"
)

func TestParseProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    cli.Provider
		wantErr bool
	}{
		{name: "deepgram", input: "deepgram", want: cli.DeepgramProvider},
		{name: "openai", input: "openai", want: cli.OpenAIProvider},
		{name: "empty", input: "", wantErr: true},
		{name: "unknown", input: "whisper", wantErr: true},
		{name: "case sensitive", input: "Deepgram", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := cli.ParseProvider(tt.input)
			if tt.wantErr {
				if !errors.Is(err, cli.ErrInvalidProvider) {
					t.Fatalf("error = %v, want ErrInvalidProvider", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseProvider(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestProvider_Predicates(t *testing.T) {
	t.Parallel()

	if !cli.DeepgramProvider.IsDeepgram() || cli.DeepgramProvider.IsOpenAI() {
		t.Error("DeepgramProvider predicates wrong")
	}
	if !cli.OpenAIProvider.IsOpenAI() || cli.OpenAIProvider.IsDeepgram() {
		t.Error("OpenAIProvider predicates wrong")
	}

	var zero cli.Provider
	if !zero.IsZero() {
		t.Error("zero value IsZero() = false")
	}
	if cli.DeepgramProvider.IsZero() {
		t.Error("DeepgramProvider IsZero() = true")
	}
}

func TestProvider_String(t *testing.T) {
	t.Parallel()

	if got := cli.DeepgramProvider.String(); got != cli.ProviderDeepgram {
		t.Errorf("String() = %q, want %q", got, cli.ProviderDeepgram)
	}
	var zero cli.Provider
	if got := zero.String(); got != "" {
		t.Errorf("zero String() = %q, want empty", got)
	}
}

func TestProvider_OrDefault(t *testing.T) {
	t.Parallel()

	var zero cli.Provider
	if got := zero.OrDefault(); got != cli.DeepgramProvider {
		t.Errorf("zero OrDefault() = %v, want deepgram", got)
	}
	if got := cli.OpenAIProvider.OrDefault(); got != cli.OpenAIProvider {
		t.Errorf("OrDefault() = %v, want openai unchanged", got)
	}
}
