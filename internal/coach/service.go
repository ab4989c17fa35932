package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// DefaultSystem is the system message of the weekly planning conversation.
const DefaultSystem = "You are a cycling coach."

// ErrEmptyResponse is returned when the model answers without content.
var ErrEmptyResponse = errors.New("empty response from language model")

// Service asks the language model for a plan.
type Service struct {
	client    openai.Client
	model     openai.ChatModel
	exchanges *Exchanges
	auditPath string
	logger    *slog.Logger
}

// NewClient creates the chat completion client. Extra options are for tests.
func NewClient(apiKey string, opts ...option.RequestOption) openai.Client {
	return openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
}

// NewService creates a Service. exchanges may be nil and an empty auditPath disables the audit file.
func NewService(client openai.Client, exchanges *Exchanges, auditPath string, logger *slog.Logger) *Service {
	return &Service{
		client:    client,
		model:     openai.ChatModelGPT4o,
		exchanges: exchanges,
		auditPath: auditPath,
		logger:    logger,
	}
}

type auditMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type auditRecord struct {
	Messages   []auditMessage  `json:"messages"`
	Completion json.RawMessage `json:"completion"`
}

// Ask sends the system and user messages with deterministic sampling and returns the answer.
func (s *Service) Ask(ctx context.Context, system, user string) (string, error) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, "sending prompt", slog.String("model", string(s.model)),
		slog.Int("prompt_length", len(user)))

	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{ //nolint:exhaustruct // defaults.
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model:       s.model,
		Temperature: openai.Float(0),
		TopP:        openai.Float(1),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "received completion",
		slog.Int64("prompt_tokens", completion.Usage.PromptTokens),
		slog.Int64("completion_tokens", completion.Usage.CompletionTokens))

	if s.auditPath != "" {
		if err = s.writeAudit(system, user, completion.RawJSON()); err != nil {
			return "", err
		}
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	content := completion.Choices[0].Message.Content

	if s.exchanges != nil {
		if _, err = s.exchanges.Save(ctx, Exchange{ //nolint:exhaustruct // ID and time are set on insert.
			Model:      string(s.model),
			System:     system,
			Prompt:     user,
			Completion: content,
		}); err != nil {
			return "", err
		}
	}
	return content, nil
}

func (s *Service) writeAudit(system, user, rawCompletion string) error {
	if rawCompletion == "" {
		rawCompletion = "null"
	}
	b, err := json.MarshalIndent(auditRecord{
		Messages: []auditMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Completion: json.RawMessage(rawCompletion),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal audit: %w", err)
	}
	if err = os.WriteFile(s.auditPath, b, 0o600); err != nil {
		return fmt.Errorf("write audit %s: %w", s.auditPath, err)
	}
	return nil
}
