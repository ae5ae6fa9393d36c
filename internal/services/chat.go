package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/md2563430-netizen/KABS-WEBSITE/internal/config"
)

// ErrEmptyMessage is returned for blank chat input.
var ErrEmptyMessage = errors.New("Message is required.")

const (
	openAIChatURL = "https://api.openai.com/v1/chat/completions"

	chatSystemPrompt = "You are Kabs, a helpful assistant for KABS Promotions. Be concise, friendly, and practical. " +
		"Prioritize guidance about Events, TV, Radio, Community, and Bulk SMS. If uncertain, ask one short clarifying question."
)

// ChatService answers assistant questions. Without an OpenAI key it
// serves canned topic replies so the app keeps working.
type ChatService struct {
	apiKey     string
	model      string
	httpClient *http.Client
	endpoint   string
}

// NewChatService creates a new chat service
func NewChatService(cfg *config.Config) *ChatService {
	return &ChatService{
		apiKey:     cfg.OpenAIAPIKey,
		model:      cfg.OpenAIModel,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   openAIChatURL,
	}
}

// Reply produces the assistant's answer for one user message.
func (s *ChatService) Reply(message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	if s.apiKey == "" {
		return FallbackReply(message), nil
	}

	reply, err := s.callOpenAI(message)
	if err != nil {
		var upstream *UpstreamError
		if errors.As(err, &upstream) {
			return "", err
		}
		// Transport trouble: keep the assistant useful
		return FallbackReply(message), nil
	}
	if reply == "" {
		return FallbackReply(message), nil
	}
	return reply, nil
}

// UpstreamError is a non-2xx answer from the AI endpoint.
type UpstreamError struct {
	Body string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("AI request failed: %s", e.Body)
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (s *ChatService) callOpenAI(message string) (string, error) {
	payload := chatCompletionRequest{
		Model:       s.model,
		Temperature: 0.4,
		Messages: []chatMessage{
			{Role: "system", Content: chatSystemPrompt},
			{Role: "user", Content: message},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamError{Body: string(raw)}
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(raw, &completion); err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// FallbackReply answers from canned topic guidance when no AI
// credential is configured.
func FallbackReply(message string) string {
	m := strings.ToLower(message)

	switch {
	case strings.Contains(m, "event") || strings.Contains(m, "ticket"):
		return "For Events & Tickets: visit the Events page to browse categories, then click “Get Tickets”. If you tell me the city/date, I can guide you to the best event option."
	case strings.Contains(m, "radio"):
		return "For Radio: go to the Radio page and tap “Listen Live”. You can also select a program from the schedule to see what’s on."
	case strings.Contains(m, "tv") || strings.Contains(m, "watch"):
		return "For TV: head to KABS TV, pick a channel, then watch a show. If a video is LIVE you’ll see the LIVE badge."
	case strings.Contains(m, "community") || strings.Contains(m, "join"):
		return "For Community: go to the Community page and select “Sign Up”. You can also explore discussions and meetups from there."
	case strings.Contains(m, "bulk") || strings.Contains(m, "sms"):
		return "Bulk SMS is an add-on: choose a package, compose your message (supports {name}), upload CSV recipients, then pay and track delivery."
	}

	return "I can help with Events, TV, Radio, Community, and Bulk SMS. What are you trying to do today?"
}
