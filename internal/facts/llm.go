package facts

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// DefaultBaseURL is Gemini's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

	// DefaultModel answers quickly and cheaply.
	DefaultModel = "gemini-2.5-flash"

	// DefaultTimeout bounds one request, retries included.
	DefaultTimeout = 20 * time.Second

	// DefaultMaxRetries is the client retry count for transient failures.
	DefaultMaxRetries = 1
)

const systemPrompt = "You are a friendly astronomy teacher explaining space to primary school children."

func userPrompt(name string) string {
	return fmt.Sprintf("Write one fun, surprising and scientifically accurate fact about %q. "+
		"Use at most two sentences and a lively tone that sparks curiosity.", name)
}

// LLM generates facts with a chat completion model.
type LLM struct {
	apiKey     string
	baseURL    string
	model      string
	timeout    time.Duration
	maxRetries int
	httpClient *http.Client

	client openai.Client
}

// LLMOption configures an LLM.
type LLMOption func(*LLM)

// WithBaseURL points the client at another OpenAI-compatible endpoint.
func WithBaseURL(url string) LLMOption {
	return func(l *LLM) {
		l.baseURL = url
	}
}

// WithModel sets the chat model name.
func WithModel(model string) LLMOption {
	return func(l *LLM) {
		l.model = model
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) LLMOption {
	return func(l *LLM) {
		l.timeout = d
	}
}

// WithMaxRetries sets how often transient failures are retried.
func WithMaxRetries(n int) LLMOption {
	return func(l *LLM) {
		l.maxRetries = n
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) LLMOption {
	return func(l *LLM) {
		l.httpClient = client
	}
}

// NewLLM creates a generator authenticated with apiKey. An empty key is
// allowed; Generate then reports ErrNoAPIKey without touching the network.
func NewLLM(apiKey string, opts ...LLMOption) *LLM {
	l := &LLM{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.httpClient == nil {
		l.httpClient = &http.Client{Timeout: l.timeout}
	}

	l.client = openai.NewClient(
		option.WithAPIKey(l.apiKey),
		option.WithBaseURL(l.baseURL),
		option.WithMaxRetries(l.maxRetries),
		option.WithHTTPClient(l.httpClient),
	)
	return l
}

// Model returns the configured model name.
func (l *LLM) Model() string {
	return l.model
}

// Generate implements Generator.
func (l *LLM) Generate(ctx context.Context, name string) (string, error) {
	if l.apiKey == "" {
		return "", ErrNoAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	resp, err := l.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(l.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt(name)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion for %s: %w", name, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmpty
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}
