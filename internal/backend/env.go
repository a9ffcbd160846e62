package backend

import (
	"context"
	"os"
	"strings"

	"vibesh/internal/fallback"
)

// endpointSpec describes one candidate endpoint. The table order is the
// resolution priority: the first spec whose environment variable is set is
// tried first, and so on. Order is a behavioral contract, not a preference.
type endpointSpec struct {
	Name    string
	EnvVar  string
	BaseURL string
	Model   string
	Vision  bool
}

// endpointSpecs is the fixed credential priority table.
var endpointSpecs = []endpointSpec{
	{
		Name:    "groq",
		EnvVar:  "GROQ_API_KEY",
		BaseURL: "https://api.groq.com/openai/v1",
		Model:   "llama-3.3-70b-versatile",
	},
	{
		Name:    "openai",
		EnvVar:  "OPENAI_API_KEY",
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
		Vision:  true,
	},
	{
		Name:    "openrouter",
		EnvVar:  "OPENROUTER_API_KEY",
		BaseURL: "https://openrouter.ai/api/v1",
		Model:   "openrouter/auto",
	},
}

// Getenv is the environment lookup used to find credentials. It can be
// replaced in tests to inject synthetic environments.
var Getenv = os.Getenv

// Candidates builds fallback candidates from the environment, in priority
// order. Specs whose credential is absent are omitted entirely; they would
// fail every probe and only add noise to the attempt ledger. If visionOnly is
// set, text-only endpoints are skipped as well.
func Candidates(visionOnly bool) []fallback.Candidate[Client] {
	candidates := make([]fallback.Candidate[Client], 0, len(endpointSpecs))

	for _, spec := range endpointSpecs {
		if visionOnly && !spec.Vision {
			continue
		}
		key := strings.TrimSpace(Getenv(spec.EnvVar))
		if key == "" {
			continue
		}

		client, err := NewChatClient(spec.BaseURL, key, spec.Model, spec.Vision)
		if err != nil {
			continue
		}
		candidates = append(candidates, fallback.Candidate[Client]{
			Name:  spec.Name,
			Value: client,
			Probe: client.Probe,
		})
	}

	return candidates
}

// Resolve returns the first usable text backend, or ErrUnavailable with the
// attempt ledger if every candidate fails.
func Resolve(ctx context.Context) (Client, []fallback.Attempt, error) {
	return resolve(ctx, false)
}

// ResolveVision returns the first usable vision-capable backend.
func ResolveVision(ctx context.Context) (Client, []fallback.Attempt, error) {
	return resolve(ctx, true)
}

func resolve(ctx context.Context, visionOnly bool) (Client, []fallback.Attempt, error) {
	selected, attempts := fallback.Resolve(ctx, Candidates(visionOnly))
	if selected == nil {
		return nil, attempts, ErrUnavailable
	}
	return selected.Value, attempts, nil
}

// EnvVarHints returns the environment variables the shell inspects for
// credentials, in priority order. Used for contextual help.
func EnvVarHints() []string {
	hints := make([]string, 0, len(endpointSpecs))
	for _, spec := range endpointSpecs {
		hints = append(hints, spec.EnvVar)
	}
	return hints
}
