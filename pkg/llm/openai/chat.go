package openai

import (
	"context"
	"fmt"
	"os"

	openaigo "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultChatModel is the model used for one-shot chat completions.
const DefaultChatModel = openaigo.ChatModelGPT4o

// ChatClient runs one-shot chat completions, with or without an image,
// against the chat completions API. It backs auxiliary vision work such
// as CAPTCHA transcription; it is not part of the turn loop itself.
type ChatClient struct {
	client openaigo.Client
	model  openaigo.ChatModel
}

// ChatOption configures a ChatClient.
type ChatOption func(*[]option.RequestOption, *ChatClient)

// WithChatModel sets the chat model.
func WithChatModel(model string) ChatOption {
	return func(_ *[]option.RequestOption, c *ChatClient) {
		c.model = openaigo.ChatModel(model)
	}
}

// WithChatBaseURL sets a custom base URL for the chat client.
func WithChatBaseURL(baseURL string) ChatOption {
	return func(reqOpts *[]option.RequestOption, _ *ChatClient) {
		*reqOpts = append(*reqOpts, option.WithBaseURL(baseURL))
	}
}

// NewChatClient creates a chat client. An empty apiKey falls back to the
// OPENAI_API_KEY environment variable.
func NewChatClient(apiKey string, opts ...ChatOption) (*ChatClient, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required (provide via parameter or OPENAI_API_KEY environment variable)")
	}

	c := &ChatClient{model: DefaultChatModel}
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	for _, opt := range opts {
		opt(&reqOpts, c)
	}
	c.client = openaigo.NewClient(reqOpts...)
	return c, nil
}

// Complete runs a one-shot text completion.
func (c *ChatClient) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openaigo.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.SystemMessage(system),
			openaigo.UserMessage(user),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// CompleteVision runs a one-shot completion over a prompt and an inline
// image, given as a data URL.
func (c *ChatClient) CompleteVision(ctx context.Context, system, prompt, imageDataURL string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openaigo.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.SystemMessage(system),
			openaigo.UserMessage([]openaigo.ChatCompletionContentPartUnionParam{
				openaigo.TextContentPart(prompt),
				openaigo.ImageContentPart(openaigo.ChatCompletionContentPartImageImageURLParam{
					URL: imageDataURL,
				}),
			}),
		},
	})
	if err != nil {
		return "", fmt.Errorf("vision completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("vision completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
