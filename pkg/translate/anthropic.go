package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/avast/retry-go/v4"

	"github.com/ehollis/lingreader/pkg/dictionary"
	"github.com/ehollis/lingreader/pkg/document"
)

const systemPrompt = "You are a precise bilingual dictionary and translator. Follow the output format instructions exactly."

// Anthropic is a Backend backed by the Anthropic Messages API.
type Anthropic struct {
	client *anthropic.Client
	model  anthropic.Model
	apiKey string
}

// NewAnthropic builds a backend from an API key. An empty key yields a
// backend that reports itself unavailable.
func NewAnthropic(apiKey string) *Anthropic {
	return &Anthropic{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.ModelClaude3_5SonnetLatest,
		apiKey: apiKey,
	}
}

func (a *Anthropic) IsAvailable() bool { return a.apiKey != "" }

func (a *Anthropic) TranslateWord(ctx context.Context, word, sentence string, pair dictionary.LanguagePair) (document.TranslationEntry, error) {
	raw, err := a.send(ctx, wordPrompt(word, sentence, pair))
	if err != nil {
		return document.TranslationEntry{}, err
	}
	return parseWordReply(raw)
}

func (a *Anthropic) TranslatePhrase(ctx context.Context, phrase string, pair dictionary.LanguagePair) (string, error) {
	raw, err := a.send(ctx, phrasePrompt(phrase, pair))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

func (a *Anthropic) send(ctx context.Context, prompt string) (string, error) {
	if !a.IsAvailable() {
		return "", fmt.Errorf("translation backend not configured")
	}

	var message *anthropic.Message
	err := retry.Do(
		func() error {
			var err error
			message, err = a.client.Messages.New(ctx, anthropic.MessageNewParams{
				Model:     anthropic.F(a.model),
				MaxTokens: anthropic.F(int64(1024)),
				System: anthropic.F([]anthropic.TextBlockParam{
					anthropic.NewTextBlock(systemPrompt),
				}),
				Messages: anthropic.F([]anthropic.MessageParam{
					anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
				}),
			})
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", fmt.Errorf("anthropic api: %w", err)
	}
	if len(message.Content) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return message.Content[0].Text, nil
}

// parseWordReply decodes the {"translation": ..., "pos": ...} object the
// prompt asks for. Models sometimes wrap it in code fences or prose, so
// the object is located by its braces rather than decoded whole.
func parseWordReply(raw string) (document.TranslationEntry, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return document.TranslationEntry{}, fmt.Errorf("no JSON object in reply %q", raw)
	}
	var reply struct {
		Translation string `json:"translation"`
		POS         string `json:"pos"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &reply); err != nil {
		return document.TranslationEntry{}, fmt.Errorf("decode reply: %w", err)
	}
	if strings.TrimSpace(reply.Translation) == "" {
		return document.TranslationEntry{}, fmt.Errorf("reply has no translation: %q", raw)
	}
	return document.TranslationEntry{
		Translation:  strings.TrimSpace(reply.Translation),
		PartOfSpeech: strings.TrimSpace(reply.POS),
	}, nil
}
