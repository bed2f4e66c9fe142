package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/yukikurage/task-tracker-api/internal/logging"
)

// ErrAIUnavailable is returned while the OpenAI circuit breaker is open
var ErrAIUnavailable = errors.New("AI service is temporarily unavailable")

// TaskGenerator turns free text into task drafts
type TaskGenerator interface {
	GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error)
}

// GeneratedTask is a task draft proposed by the model
type GeneratedTask struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Priority      string     `json:"priority"`
	DueDate       *time.Time `json:"dueDate"`
	TodoChecklist []string   `json:"todoChecklist"`
}

// AIService generates task drafts with the OpenAI chat API
type AIService struct {
	client  *openai.Client
	breaker *gobreaker.CircuitBreaker
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client:  openai.NewClient(apiKey),
		breaker: newAIBreaker(),
	}
}

func newAIBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openai",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
	})
}

const generatePrompt = `You are a task extraction assistant. Extract concrete tasks from the text below.

Current time: %s

Text:
%s

Return a JSON array of the extracted tasks in this format:
[
  {
    "title": "short task title",
    "description": "task details",
    "priority": "Low, Medium or High",
    "dueDate": "deadline in ISO8601 (e.g. 2025-10-28T23:59:59Z), or null when none is stated",
    "todoChecklist": ["concrete step", "another step"]
  }
]

Rules:
- Return an empty array [] when the text contains no tasks
- Convert relative expressions ("tomorrow", "next week") into concrete dates
- dueDate must be an ISO8601 string or null
- Return only JSON, without any explanation`

// GenerateTasksFromText analyzes text and extracts task drafts using OpenAI GPT
func (s *AIService) GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(generatePrompt, time.Now().Format("2006-01-02 15:04:05"), text)

	result, err := s.breaker.Execute(func() (interface{}, error) {
		resp, err := s.client.CreateChatCompletion(
			ctx,
			openai.ChatCompletionRequest{
				Model: openai.GPT4o,
				Messages: []openai.ChatCompletionMessage{
					{
						Role:    openai.ChatMessageRoleUser,
						Content: prompt,
					},
				},
				Temperature: 0.3,
			},
		)
		if err != nil {
			return nil, fmt.Errorf("OpenAI API error: %w", err)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrAIUnavailable
		}
		return nil, err
	}

	resp := result.(openai.ChatCompletionResponse)
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseGeneratedTasks(resp.Choices[0].Message.Content)
}

// parseGeneratedTasks decodes the model output, tolerating a markdown code fence
func parseGeneratedTasks(content string) ([]GeneratedTask, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var tasks []GeneratedTask
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return tasks, nil
}
