package integrations

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/egresswatch/egresswatch/internal/domain/recommendation"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
)

// Explainer optionally enriches recommendation descriptions with a
// model-written remediation paragraph. Enrichment is best effort: any
// API failure leaves the original description untouched.
type Explainer struct {
	client *openai.Client
	log    *logger.Logger
}

// NewExplainer creates an explainer, or nil when no API key is set
func NewExplainer(apiKey string, log *logger.Logger) *Explainer {
	if apiKey == "" {
		return nil
	}
	return &Explainer{client: openai.NewClient(apiKey), log: log}
}

// Annotate appends a remediation note to high-urgency recommendations.
// Only critical and high priorities are sent, to keep token spend
// proportional to what an operator will actually read first.
func (e *Explainer) Annotate(ctx context.Context, recs []recommendation.Recommendation) []recommendation.Recommendation {
	for i := range recs {
		if recs[i].Priority != recommendation.PriorityCritical && recs[i].Priority != recommendation.PriorityHigh {
			continue
		}
		note, err := e.explain(ctx, &recs[i])
		if err != nil {
			e.log.WithError(err).Warn("recommendation enrichment failed")
			continue
		}
		if note != "" {
			recs[i].Description = recs[i].Description + "\n\nSuggested next steps: " + note
		}
	}
	return recs
}

func (e *Explainer) explain(ctx context.Context, rec *recommendation.Recommendation) (string, error) {
	prompt := fmt.Sprintf(
		"A cloud egress monitor produced this %s-priority %s finding:\n%s\n%s\nAffected resources: %s.\n"+
			"In at most three sentences, suggest concrete next steps for the operator.",
		rec.Priority, rec.Category, rec.Title, rec.Description, strings.Join(rec.Resources, ", "))

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
		MaxTokens: 200,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
