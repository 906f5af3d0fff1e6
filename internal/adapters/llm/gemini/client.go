package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/minhthuy266/gemini-tarot/internal/domain"
	"github.com/minhthuy266/gemini-tarot/internal/ports"
)

const maxRetries = 3

// Client implements ports.Interpreter against the Gemini generateContent
// REST API with structured output enforced via responseSchema.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
	logger     *slog.Logger
	sleep      func(time.Duration)
}

func NewClient(httpClient *http.Client, apiKey, baseURL, model string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		logger:     logger,
		sleep:      time.Sleep,
	}
}

// generateRequest / generateResponse mirror the Gemini REST API shapes.
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
	ResponseMIMEType string  `json:"responseMimeType"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// cardResult is the per-card object shape the schemas require.
type cardResult struct {
	Name            string `json:"name"`
	UprightMeaning  string `json:"upright_meaning"`
	ReversedMeaning string `json:"reversed_meaning"`
	Description     string `json:"description"`
}

func (r cardResult) complete() bool {
	return r.Name != "" && r.UprightMeaning != "" && r.ReversedMeaning != "" && r.Description != ""
}

type spreadResult struct {
	Cards   []cardResult `json:"cards"`
	Summary string       `json:"summary"`
}

type dailyResult struct {
	cardResult
	DailyInterpretation string `json:"daily_interpretation"`
}

// InterpretSpread builds the spread prompt, calls Gemini with the spread
// schema, and enriches the validated result. Image URLs, position fields,
// and reversal flags come from the input, never from the model.
func (c *Client) InterpretSpread(ctx context.Context, in ports.SpreadInput) (ports.SpreadOutput, error) {
	var result spreadResult
	if err := c.generateInto(ctx, buildSpreadPrompt(in), spreadSchema(), &result); err != nil {
		return ports.SpreadOutput{}, err
	}

	if len(result.Cards) != len(in.Cards) || result.Summary == "" {
		return ports.SpreadOutput{}, fmt.Errorf("%w: expected %d cards with summary, got %d",
			domain.ErrInvalidLLMJSON, len(in.Cards), len(result.Cards))
	}

	cards := make([]domain.InterpretedCard, len(result.Cards))
	for i, card := range result.Cards {
		if !card.complete() {
			return ports.SpreadOutput{}, fmt.Errorf("%w: card %d is missing required fields", domain.ErrInvalidLLMJSON, i+1)
		}
		cards[i] = domain.InterpretedCard{
			Name:                card.Name,
			UprightMeaning:      card.UprightMeaning,
			ReversedMeaning:     card.ReversedMeaning,
			Description:         card.Description,
			ImageURL:            domain.CardImageURL(in.Cards[i].Name),
			PositionMeaning:     in.Positions[i].Meaning,
			PositionDescription: in.Positions[i].Description,
			Reversed:            in.Cards[i].Reversed,
		}
	}

	return ports.SpreadOutput{Cards: cards, Summary: result.Summary}, nil
}

// InterpretCardOfDay fetches the single-card daily variant.
func (c *Client) InterpretCardOfDay(ctx context.Context, card domain.DrawnCard) (ports.DailyOutput, error) {
	var result dailyResult
	if err := c.generateInto(ctx, buildDailyPrompt(card.Name, card.Reversed), dailyCardSchema(), &result); err != nil {
		return ports.DailyOutput{}, err
	}

	if !result.complete() || result.DailyInterpretation == "" {
		return ports.DailyOutput{}, fmt.Errorf("%w: daily card is missing required fields", domain.ErrInvalidLLMJSON)
	}

	return ports.DailyOutput{
		Card: domain.InterpretedCard{
			Name:                result.Name,
			UprightMeaning:      result.UprightMeaning,
			ReversedMeaning:     result.ReversedMeaning,
			Description:         result.Description,
			ImageURL:            domain.CardImageURL(card.Name),
			PositionMeaning:     "Lá Bài Của Ngày",
			PositionDescription: "Năng lượng chủ đạo cho ngày hôm nay.",
			Reversed:            card.Reversed,
		},
		Interpretation: result.DailyInterpretation,
	}, nil
}

// CardDetails fetches a glossary entry for one card, with no position
// context and no reversal.
func (c *Client) CardDetails(ctx context.Context, name string) (ports.CardDetails, error) {
	var result cardResult
	if err := c.generateInto(ctx, buildDetailsPrompt(name), cardDetailSchema(), &result); err != nil {
		return ports.CardDetails{}, err
	}

	if !result.complete() {
		return ports.CardDetails{}, fmt.Errorf("%w: card details are missing required fields", domain.ErrInvalidLLMJSON)
	}

	return ports.CardDetails{
		Name:            result.Name,
		UprightMeaning:  result.UprightMeaning,
		ReversedMeaning: result.ReversedMeaning,
		Description:     result.Description,
	}, nil
}

// generateInto runs one generation and decodes the JSON payload into out.
// On malformed JSON it re-asks the model once with the bad output before
// giving up.
func (c *Client) generateInto(ctx context.Context, prompt string, schema *Schema, out any) error {
	text, err := c.generate(ctx, prompt, schema)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpstreamLLM, err)
	}

	if err := json.Unmarshal([]byte(stripFences(text)), out); err != nil {
		c.logger.WarnContext(ctx, "model returned invalid JSON, retrying", "model", c.model, "error", err)
		text, err = c.generate(ctx, retryPrompt(text), schema)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrUpstreamLLM, err)
		}
		if err := json.Unmarshal([]byte(stripFences(text)), out); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidLLMJSON, err)
		}
	}
	return nil
}

// generate posts one generateContent call, retrying with backoff on rate
// limits and transport failures, and returns the first candidate's text.
func (c *Client) generate(ctx context.Context, prompt string, schema *Schema) (string, error) {
	reqBody := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			c.sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}

		text, retryable, err := c.doCall(ctx, url, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
		c.logger.WarnContext(ctx, "generate call failed, retrying", "attempt", attempt+1, "error", err)
	}

	return "", lastErr
}

func (c *Client) doCall(ctx context.Context, url string, body []byte) (text string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("http call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", true, fmt.Errorf("rate limited (429)")
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("upstream status %d: %s", resp.StatusCode, string(respBody))
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", false, fmt.Errorf("decode response: %w", err)
	}
	if genResp.Error != nil {
		return "", false, fmt.Errorf("upstream error %d: %s", genResp.Error.Code, genResp.Error.Message)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", false, fmt.Errorf("no candidates in response")
	}

	return strings.TrimSpace(genResp.Candidates[0].Content.Parts[0].Text), false, nil
}

// stripFences removes a markdown code-fence wrapper, which some models
// add despite the JSON mime type.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
