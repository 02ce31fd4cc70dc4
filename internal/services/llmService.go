package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

const DefaultLLMModel = "gemini-2.5-flash"

// TextGenerator produces free-form text for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// LLMGenerator is a TextGenerator backed by Google AI through langchaingo.
type LLMGenerator struct {
	apiKey string
	model  string
}

func NewLLMGenerator(apiKey, model string) *LLMGenerator {
	if model == "" {
		model = DefaultLLMModel
	}
	return &LLMGenerator{apiKey: apiKey, model: model}
}

func (g *LLMGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if g.apiKey == "" {
		return "", errors.New("missing api key")
	}

	llm, err := googleai.New(ctx, googleai.WithAPIKey(g.apiKey), googleai.WithDefaultModel(g.model))
	if err != nil {
		return "", fmt.Errorf("failed to create Google AI LLM: %w", err)
	}

	var opts []llms.CallOption
	if maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(maxTokens))
	}

	text, err := llms.GenerateFromSinglePrompt(ctx, llm, prompt, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate text from LLM: %w", err)
	}
	return text, nil
}
