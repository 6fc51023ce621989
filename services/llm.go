package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
	"github.com/rs/zerolog/log"

	"partschat/config"
	"partschat/metrics"
)

// AnswerSource distinguishes a real LLM answer from a degraded local one, so
// callers (and metrics) can tell the two apart even though the user sees a
// single assistant reply either way.
type AnswerSource string

const (
	AnswerSourceLLM      AnswerSource = "llm"
	AnswerSourceFallback AnswerSource = "fallback"
)

// Answer is the gateway's result: the reply text plus where it came from.
type Answer struct {
	Content string
	Source  AnswerSource
}

// completionClient is the minimal chat-completion surface the gateway needs.
// Tests substitute it to simulate upstream failure.
type completionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// deepseekClient calls the DeepSeek chat-completion endpoint through the
// OpenAI-compatible client.
type deepseekClient struct {
	client      openai.Client
	model       string
	maxTokens   int64
	temperature float64
}

func (d *deepseekClient) Complete(ctx context.Context, system, user string) (string, error) {
	completion, err := d.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model:       shared.ChatModel(d.model),
		MaxTokens:   openai.Int(d.maxTokens),
		Temperature: openai.Float(d.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

// LLMGateway formats prompts, calls the chat-completion API, and substitutes
// the local fallback responder on any failure. The caller never sees the
// failure itself, only a degraded answer with Source set accordingly.
type LLMGateway struct {
	completer completionClient
	fallback  *FallbackResponder
	search    *SearchService
	timeout   time.Duration
	enabled   bool
}

func NewLLMGateway(cfg config.DeepSeekConfig, search *SearchService, fallback *FallbackResponder) *LLMGateway {
	g := &LLMGateway{
		fallback: fallback,
		search:   search,
		timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		enabled:  cfg.APIKey != "",
	}
	if g.timeout <= 0 {
		g.timeout = 30 * time.Second
	}
	if g.enabled {
		g.completer = &deepseekClient{
			client: openai.NewClient(
				option.WithBaseURL(cfg.BaseURL),
				option.WithAPIKey(cfg.APIKey),
			),
			model:       cfg.Model,
			maxTokens:   int64(cfg.MaxTokens),
			temperature: cfg.Temperature,
		}
	} else {
		log.Warn().Msg("DEEPSEEK_API_KEY not set, all chat answers will use the local fallback responder")
	}
	return g
}

// Enabled reports whether the upstream provider is configured.
func (g *LLMGateway) Enabled() bool {
	return g.enabled
}

// Answer produces a free-form reply for the query. Up to three relevant
// products are retrieved and appended to the system prompt together with the
// caller-supplied context text. Any upstream failure, including timeout, is
// answered by the fallback responder instead.
func (g *LLMGateway) Answer(ctx context.Context, query, contextText string) Answer {
	if !g.enabled {
		return g.degraded(query, nil)
	}

	system := systemPrompt(contextText + g.retrievedContext(ctx, query))

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	content, err := g.completer.Complete(ctx, system, query)
	if err != nil {
		return g.degraded(query, err)
	}

	metrics.ChatAnswersTotal.WithLabelValues(string(AnswerSourceLLM)).Inc()
	return Answer{Content: content, Source: AnswerSourceLLM}
}

// Explain asks the model to elaborate on a deterministic compatibility
// verdict. The prompt forbids contradicting the verdict, but nothing verifies
// compliance, so callers must treat the text as advisory and keep the verdict
// line authoritative. On any failure the explanation is simply omitted; this
// path never substitutes the fallback responder.
func (g *LLMGateway) Explain(ctx context.Context, query, verdict string) string {
	if !g.enabled {
		return ""
	}

	system := fmt.Sprintf(`You are a helpful assistant for PartSelect, an e-commerce website specializing in refrigerator and dishwasher parts.

A deterministic compatibility check has already produced this verdict:
%s

Briefly explain this verdict to the customer and suggest a sensible next step. You must not contradict the verdict under any circumstances.`, verdict)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	content, err := g.completer.Complete(ctx, system, query)
	if err != nil {
		log.Warn().Err(err).Msg("Verdict explanation failed, returning verdict alone")
		return ""
	}
	return content
}

func (g *LLMGateway) degraded(query string, cause error) Answer {
	if cause != nil {
		log.Warn().Err(cause).Msg("LLM call failed, using local fallback responder")
	}
	metrics.ChatAnswersTotal.WithLabelValues(string(AnswerSourceFallback)).Inc()
	return Answer{Content: g.fallback.Respond(query), Source: AnswerSourceFallback}
}

// retrievedContext renders the top relevance-search hits as a context block.
func (g *LLMGateway) retrievedContext(ctx context.Context, query string) string {
	products := g.search.RelevantProducts(ctx, query, 3)
	if len(products) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\nRelevant products:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "- %s (Part Number: %s, Category: %s, Price: $%.2f): %s\n",
			p.Name, p.PartNumber, p.Category, p.Price, p.Description)
	}
	return b.String()
}

// systemPrompt embeds the PartSelect business scope and any accumulated
// context. The two redirect messages are fixed; out-of-scope questions must
// receive one of them verbatim.
func systemPrompt(contextText string) string {
	return `You are a helpful assistant for PartSelect, an e-commerce website specializing in refrigerator and dishwasher parts.

Your role is to help customers with:
1. Product information and part searches
2. Compatibility checks between parts and appliance models
3. Installation guidance and instructions
4. Troubleshooting appliance issues

You must stay strictly within refrigerator and dishwasher parts. If the customer asks about any other appliance, reply exactly: "I can only help with refrigerator and dishwasher parts. For other appliances, please visit our main website or contact customer service." If the question is not about appliance parts at all, reply exactly: "I'm here to help with refrigerator and dishwasher parts. Is there anything I can help you find for those appliances?"

Always be helpful, accurate, and focused on appliance parts. If you don't have specific information about a part or model, suggest contacting customer service or checking the PartSelect website.
` + contextText
}
