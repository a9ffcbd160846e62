package screen

import (
	"context"
	"fmt"
	"os"
	"strings"

	"vibesh/internal/backend"
	"vibesh/internal/fallback"
)

// textBudget is the maximum number of characters of terminal text sent to a
// backend. Longer text is tail-truncated: the most recent output matters most.
const textBudget = 4000

// DefaultQuery is used when the user asks to look without saying at what.
const DefaultQuery = "Describe what is currently on the screen."

const analysisSystemPrompt = "You are looking at a user's screen or terminal. Answer their question about it concisely."

// Report is the outcome of one inspection.
type Report struct {
	Description  string
	Method       string
	ArtifactPath string
	Analyzed     bool
}

// ResolveFunc selects an AI backend. Matches backend.Resolve and
// backend.ResolveVision; injectable for tests.
type ResolveFunc func(ctx context.Context) (backend.Client, []fallback.Attempt, error)

// Pipeline composes capture-method resolution with AI analysis.
type Pipeline struct {
	capturer      *Capturer
	resolveText   ResolveFunc
	resolveVision ResolveFunc
}

// NewPipeline creates a pipeline with the real backend resolvers.
func NewPipeline(capturer *Capturer) *Pipeline {
	return &Pipeline{
		capturer:      capturer,
		resolveText:   backend.Resolve,
		resolveVision: backend.ResolveVision,
	}
}

// WithResolvers sets custom backend resolvers (useful for testing).
func (p *Pipeline) WithResolvers(text, vision ResolveFunc) *Pipeline {
	p.resolveText = text
	p.resolveVision = vision
	return p
}

// Inspect captures the screen and answers the query about it. Every
// degradation path still returns a report: a failed capture method falls
// through to the next, and a missing backend downgrades the report to the
// raw capture description. The returned error is reserved for the impossible
// case of every capture method failing.
func (p *Pipeline) Inspect(ctx context.Context, query string) (*Report, error) {
	if strings.TrimSpace(query) == "" {
		query = DefaultQuery
	}

	artifact := p.capture(ctx)
	if artifact == nil {
		return nil, fmt.Errorf("all capture methods failed")
	}

	if artifact.IsImage {
		return p.analyzeImage(ctx, artifact, query), nil
	}
	return p.analyzeText(ctx, artifact, query), nil
}

// capture walks the candidate chain. A candidate whose probe succeeded can
// still fail at capture time; resolution is retried from scratch against the
// remaining candidates in that case.
func (p *Pipeline) capture(ctx context.Context) *Artifact {
	candidates := p.capturer.Candidates()

	for len(candidates) > 0 {
		selected, attempts := fallback.Resolve(ctx, candidates)
		if selected == nil {
			return nil
		}

		artifact, err := selected.Value(ctx)
		if err == nil {
			return artifact
		}

		// Drop the failed candidate and everything before it.
		candidates = candidates[len(attempts):]
	}

	return nil
}

func (p *Pipeline) analyzeImage(ctx context.Context, artifact *Artifact, query string) *Report {
	report := &Report{Method: artifact.Method, ArtifactPath: artifact.Path}

	png, err := os.ReadFile(artifact.Path)
	if err != nil {
		report.Description = fmt.Sprintf("Captured an image via %s at %s, but it could not be read back (%v).",
			artifact.Method, artifact.Path, err)
		return report
	}

	client, _, err := p.resolveVision(ctx)
	if err != nil {
		report.Description = fmt.Sprintf("Captured an image via %s at %s. No vision-capable AI backend is available to analyze it.",
			artifact.Method, artifact.Path)
		return report
	}

	answer, err := client.CompleteVision(ctx, analysisSystemPrompt, query, png)
	if err != nil {
		report.Description = fmt.Sprintf("Captured an image via %s at %s. Analysis failed: %v.",
			artifact.Method, artifact.Path, err)
		return report
	}

	report.Description = answer
	report.Analyzed = true
	return report
}

func (p *Pipeline) analyzeText(ctx context.Context, artifact *Artifact, query string) *Report {
	report := &Report{Method: artifact.Method}

	// Optional visual aid; its absence never blocks the textual report.
	if path, err := p.renderArtifact(artifact); err == nil {
		report.ArtifactPath = path
	}

	text := truncateTail(artifact.Text, textBudget)

	client, _, err := p.resolveText(ctx)
	if err != nil {
		report.Description = fmt.Sprintf("No AI backend is available. Raw terminal state:\n\n%s", text)
		return report
	}

	prompt := fmt.Sprintf("Terminal state:\n\n%s\n\nQuestion: %s", text, query)
	answer, err := client.Complete(ctx, analysisSystemPrompt, prompt)
	if err != nil {
		report.Description = fmt.Sprintf("AI analysis failed (%v). Raw terminal state:\n\n%s", err, text)
		return report
	}

	report.Description = answer
	report.Analyzed = true
	return report
}

// renderArtifact writes the deterministic raster rendering of a text capture
// next to the image captures.
func (p *Pipeline) renderArtifact(artifact *Artifact) (string, error) {
	if artifact.Text == "" {
		return "", fmt.Errorf("nothing to render")
	}
	path, err := p.capturer.capturePath()
	if err != nil {
		return "", err
	}
	if err := RenderText(artifact.Text, path); err != nil {
		return "", err
	}
	return path, nil
}

// truncateTail keeps the last max characters of s.
func truncateTail(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[len(s)-max:]
}
