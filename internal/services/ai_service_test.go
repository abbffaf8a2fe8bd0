package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/rakshitjain23/taskpilot-api/internal/config"
)

func TestNewAIService_NoAPIKey(t *testing.T) {
	svc := NewAIService(config.AIConfig{}, nil, nil, nil, nil, nil, nil, zerolog.Nop())
	require.Nil(t, svc)
}

func TestAIService_Chat_NoMessages(t *testing.T) {
	svc := NewAIService(config.AIConfig{
		DeepSeekAPIKey: "test-key",
		Model:          "deepseek-chat",
		BaseURL:        "https://api.deepseek.com/v1",
		MaxTokens:      500,
	}, nil, nil, nil, nil, nil, nil, zerolog.Nop())
	require.NotNil(t, svc)

	_, err := svc.Chat(context.Background(), 1, nil)
	require.ErrorIs(t, err, ErrNoMessages)
}
