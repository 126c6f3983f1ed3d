package reply

import (
	"context"
	"time"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"

	"github.com/duskren/convo/internal/configuration"
	"github.com/duskren/convo/internal/conversation"
)

// OpenAIClient generates replies through an OpenAI-compatible API.
type OpenAIClient struct {
	client         *openai.Client
	model          string
	requestTimeout time.Duration
}

// NewOpenAIClient instantiates and returns a new client.
func NewOpenAIClient(config *configuration.ReplyConfig) *OpenAIClient {
	openAIConfig := openai.DefaultConfig(config.APIKey)
	if config.APIHost != "" {
		openAIConfig.BaseURL = config.APIHost
	}
	return &OpenAIClient{
		client:         openai.NewClientWithConfig(openAIConfig),
		model:          config.Model,
		requestTimeout: time.Duration(config.RequestTimeout) * time.Second,
	}
}

// GenerateReply implements Client.
func (c *OpenAIClient) GenerateReply(ctx context.Context, messages []*conversation.Message, userText string) (*conversation.Message, error) {
	if c.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}

	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, message := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    string(message.Role),
			Content: message.Content,
		})
	}

	request := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: chatMessages,
	}
	response, err := c.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, errors.Wrap(err, "creating chat completion")
	}
	if len(response.Choices) == 0 {
		return nil, errors.Errorf("ChatCompletionResponse returned no choice: %+v", response)
	}

	return conversation.NewAssistantMessage(response.Choices[0].Message.Content), nil
}
