package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"storefront/internal/logger"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	descriptionTemperature = 0.7
	reviewTemperature      = 0.8
)

var ErrEmptyAnswer = errors.New("model returned no text")

// FailureRecorder is told about every call that fell back.
type FailureRecorder interface {
	EnhanceFailed(operation string)
}

type geminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[string]
	failures   FailureRecorder
}

// ----------------- Constructor -----------------

func NewGemini(apiKey, model string, failures FailureRecorder) Enhancer {
	if apiKey == "" {
		logger.L().Warn("Gemini API key is empty")
	}

	return &geminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: geminiBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		breaker: gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:    "gemini",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			// caller cancellation is not an API failure
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.L().Warn("circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		}),
		failures: failures,
	}
}

// ----------------- EnhanceDescription -----------------

func (g *geminiClient) EnhanceDescription(ctx context.Context, productName, currentDescription string) string {
	prompt := fmt.Sprintf(
		"As a sales and marketing expert, rewrite this product description to make it more appealing to customers.\n"+
			"Product name: %s\n"+
			"Current description: %s\n"+
			"Reply with the new description only.",
		productName, currentDescription,
	)

	text, err := g.generate(ctx, "EnhanceDescription", prompt, descriptionTemperature)
	if err != nil {
		return currentDescription
	}
	return text
}

// ----------------- GenerateReview -----------------

func (g *geminiClient) GenerateReview(ctx context.Context, productName string) string {
	prompt := fmt.Sprintf(
		"You are a customer who bought this product: %q. Write a short, realistic review expressing satisfaction with its quality.",
		productName,
	)

	text, err := g.generate(ctx, "GenerateReview", prompt, reviewTemperature)
	if err != nil {
		return DefaultReview
	}
	return text
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (g *geminiClient) generate(ctx context.Context, operation, prompt string, temperature float64) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "enhance"),
		zap.String("method", operation),
		zap.String("model", g.model),
	)

	text, err := g.breaker.Execute(func() (string, error) {
		return g.call(ctx, log, prompt, temperature)
	})
	if err != nil {
		log.Warn("enhancement failed, using fallback", zap.Error(err))
		if g.failures != nil {
			g.failures.EnhanceFailed(operation)
		}
		return "", err
	}
	return text, nil
}

func (g *geminiClient) call(ctx context.Context, log *zap.Logger, prompt string, temperature float64) (string, error) {
	body := generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{Temperature: temperature},
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error("Gemini returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return "", fmt.Errorf("gemini error: status %d", resp.StatusCode)
	}

	var res generateResponse
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		return "", err
	}

	var sb strings.Builder
	if len(res.Candidates) > 0 {
		for _, p := range res.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyAnswer
	}
	return text, nil
}
