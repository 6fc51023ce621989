package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partschat/config"
	"partschat/models"
)

// stubCompleter stands in for the chat-completion API.
type stubCompleter struct {
	reply string
	err   error
	calls int
}

func (s *stubCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func newTestComposer(t *testing.T, completer completionClient) (*ResponseComposer, *LLMGateway) {
	t.Helper()
	catalog := testCatalog(t)
	search := NewSearchService(catalog, config.EmbeddingConfig{})
	fallback := NewFallbackResponder(catalog)

	gateway := &LLMGateway{
		fallback: fallback,
		search:   search,
		timeout:  time.Second,
	}
	if completer != nil {
		gateway.completer = completer
		gateway.enabled = true
	}

	return NewResponseComposer(catalog, NewQueryExtractor(catalog), gateway), gateway
}

func TestComposeCompatibilityVerdictWithoutLLM(t *testing.T) {
	composer, _ := newTestComposer(t, nil)

	reply := composer.Compose(context.Background(),
		"Is PS11752780 compatible with model WDT780SAEM1?", models.ConversationContext{})

	assert.Equal(t, "assistant", reply.Role)
	assert.Equal(t, models.ReplyTypeCompatibility, reply.Type)
	assert.Equal(t, "Part PS11752780 is compatible with model WDT780SAEM1.", reply.Content)

	bundle, ok := reply.Data.(*models.CompatibilityResult)
	require.True(t, ok)
	assert.True(t, bundle.Compatible)
	assert.Equal(t, "WDT780SAEM1", bundle.ModelNumber)
}

func TestComposeCompatibilityNegativeVerdict(t *testing.T) {
	composer, _ := newTestComposer(t, nil)

	reply := composer.Compose(context.Background(),
		"Is PS11752778 compatible with model WDT780SAEM1?", models.ConversationContext{})

	assert.Equal(t, "Part PS11752778 is NOT compatible with model WDT780SAEM1.", reply.Content)
	assert.Equal(t, models.ReplyTypeCompatibility, reply.Type)
}

func TestComposeCompatibilityExplanationAppended(t *testing.T) {
	stub := &stubCompleter{reply: "This pump is listed for your dishwasher, so it will fit."}
	composer, _ := newTestComposer(t, stub)

	reply := composer.Compose(context.Background(),
		"Is PS11752781 compatible with model WDT750SAEM1?", models.ConversationContext{})

	assert.Equal(t,
		"Part PS11752781 is compatible with model WDT750SAEM1.\n\n"+
			"This pump is listed for your dishwasher, so it will fit.",
		reply.Content)
	assert.Equal(t, 1, stub.calls)
}

// A failing explanation call leaves the verdict line alone rather than
// substituting a fallback answer.
func TestComposeCompatibilityVerdictSurvivesLLMFailure(t *testing.T) {
	stub := &stubCompleter{err: errors.New("upstream unavailable")}
	composer, _ := newTestComposer(t, stub)

	reply := composer.Compose(context.Background(),
		"Is PS11752781 compatible with model WDT750SAEM1?", models.ConversationContext{})

	assert.Equal(t, "Part PS11752781 is compatible with model WDT750SAEM1.", reply.Content)
	assert.Equal(t, models.ReplyTypeCompatibility, reply.Type)
}

func TestComposeCompatibilityUsesConversationContext(t *testing.T) {
	composer, _ := newTestComposer(t, nil)

	reply := composer.Compose(context.Background(),
		"Is this part compatible with model WDT780SAEM1?",
		models.ConversationContext{LastPartNumber: "PS11752780"})

	assert.Equal(t, "Part PS11752780 is compatible with model WDT780SAEM1.", reply.Content)
}

func TestComposeCompatibilityUnknownPartFallsThroughToVerdict(t *testing.T) {
	composer, _ := newTestComposer(t, nil)

	reply := composer.Compose(context.Background(),
		"Is PS99999999 compatible with model WDT780SAEM1?", models.ConversationContext{})

	assert.Equal(t, "Part PS99999999 is NOT compatible with model WDT780SAEM1.", reply.Content)
	assert.Nil(t, reply.Data)
}

func TestComposeProductCard(t *testing.T) {
	composer, _ := newTestComposer(t, nil)

	reply := composer.Compose(context.Background(),
		"Tell me about part number PS11752778", models.ConversationContext{})

	assert.Equal(t, models.ReplyTypeProduct, reply.Type)
	product, ok := reply.Data.(models.Product)
	require.True(t, ok)
	assert.Equal(t, "PS11752778", product.PartNumber)
	assert.Contains(t, reply.Content, "Whirlpool Refrigerator Door Bin")
}

func TestComposePlainReplyWithoutLLM(t *testing.T) {
	composer, _ := newTestComposer(t, nil)

	reply := composer.Compose(context.Background(),
		"My ice maker is not working", models.ConversationContext{})

	assert.Equal(t, "assistant", reply.Role)
	assert.Empty(t, reply.Type)
	assert.Nil(t, reply.Data)
	assert.Contains(t, reply.Content, "Ice Maker Troubleshooting")
}

func TestComposeUsesLLMAnswerWhenAvailable(t *testing.T) {
	stub := &stubCompleter{reply: "The door bin holds jars and bottles on the fridge door."}
	composer, gateway := newTestComposer(t, stub)
	require.True(t, gateway.Enabled())

	reply := composer.Compose(context.Background(),
		"What does the door bin do?", models.ConversationContext{})

	assert.Equal(t, "The door bin holds jars and bottles on the fridge door.", reply.Content)
}

func TestGatewayAnswerFallsBackOnError(t *testing.T) {
	catalog := testCatalog(t)
	search := NewSearchService(catalog, config.EmbeddingConfig{})
	fallback := NewFallbackResponder(catalog)

	gateway := &LLMGateway{
		completer: &stubCompleter{err: errors.New("timeout")},
		fallback:  fallback,
		search:    search,
		timeout:   time.Second,
		enabled:   true,
	}

	answer := gateway.Answer(context.Background(), "hello there", "")
	assert.Equal(t, AnswerSourceFallback, answer.Source)
	assert.Contains(t, answer.Content, "I'm your PartSelect assistant!")
}

func TestGatewayDisabledByEmptyKey(t *testing.T) {
	catalog := testCatalog(t)
	search := NewSearchService(catalog, config.EmbeddingConfig{})
	fallback := NewFallbackResponder(catalog)

	gateway := NewLLMGateway(config.DeepSeekConfig{}, search, fallback)
	assert.False(t, gateway.Enabled())

	answer := gateway.Answer(context.Background(), "hello", "")
	assert.Equal(t, AnswerSourceFallback, answer.Source)
	assert.Equal(t, "", gateway.Explain(context.Background(), "q", "verdict"))
}
