package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLLMClient implements Client for testing
type MockLLMClient struct {
	GenerateContentFunc func(ctx context.Context, prompt string, tier ModelTier) (string, error)
	GenerateJSONFunc    func(ctx context.Context, prompt string, tier ModelTier) (string, error)
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt, tier)
	}
	return "", nil
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return `{}`, nil
}

func (m *MockLLMClient) GetModel(_ ModelTier) string { return "mock-model" }
func (m *MockLLMClient) Close() error                { return nil }

func fastPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}
}

func TestCallJSON_Success(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ ModelTier) (string, error) {
			return `{"score": 8}`, nil
		},
	}

	var out struct {
		Score int `json:"score"`
	}
	err := CallJSON(context.Background(), client, "prompt", TierStandard, fastPolicy(), &out)
	require.NoError(t, err)
	assert.Equal(t, 8, out.Score)
}

func TestCallJSON_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ ModelTier) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("transient API error")
			}
			return `{"score": 5}`, nil
		},
	}

	var out struct {
		Score int `json:"score"`
	}
	err := CallJSON(context.Background(), client, "prompt", TierStandard, fastPolicy(), &out)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 5, out.Score)
}

func TestCallJSON_MalformedResponseIsFailure(t *testing.T) {
	// Garbage output must count as a failed attempt, not an empty success.
	calls := 0
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ ModelTier) (string, error) {
			calls++
			return "I could not find any organizations.", nil
		},
	}

	var out map[string]any
	err := CallJSON(context.Background(), client, "prompt", TierStandard, fastPolicy(), &out)
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestCallJSON_FenceCleaning(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ ModelTier) (string, error) {
			return "```json\n{\"score\": 9}\n```", nil
		},
	}

	var out struct {
		Score int `json:"score"`
	}
	err := CallJSON(context.Background(), client, "prompt", TierStandard, fastPolicy(), &out)
	require.NoError(t, err)
	assert.Equal(t, 9, out.Score)
}

func TestCallJSON_ContextCancelledStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ ModelTier) (string, error) {
			calls++
			cancel()
			return "", errors.New("boom")
		},
	}

	var out map[string]any
	err := CallJSON(ctx, client, "prompt", TierStandard, fastPolicy(), &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
