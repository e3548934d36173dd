package estimate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultAPIURL = "https://api.anthropic.com/v1/messages"
	apiVersion    = "2023-06-01"
	model         = "claude-3-haiku-20240307"
	maxTokens     = 1024
)

type anthropicEstimator struct {
	httpClient *resty.Client
	apiURL     string
}

// NewAnthropicEstimator returns an Estimator backed by the Anthropic
// messages API.
func NewAnthropicEstimator(apiKey string) Estimator {
	client := resty.New().
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(15 * time.Second)

	return &anthropicEstimator{httpClient: client, apiURL: defaultAPIURL}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (c *anthropicEstimator) EstimateDistance(ctx context.Context, input DistanceInput) (DistanceOutput, error) {
	system := `You are an expert in Polish logistics and mapping. Your task is to calculate the approximate driving distance in kilometers between two Polish postal codes. Respond with only a valid JSON object of the form {"distance": <number>}.`
	user := fmt.Sprintf("Start Postal Code: %s\nEnd Postal Code: %s", input.StartPostalCode, input.EndPostalCode)

	var out DistanceOutput
	if err := c.complete(ctx, system, user, &out); err != nil {
		return DistanceOutput{}, err
	}
	return out, nil
}

func (c *anthropicEstimator) EstimateTransportCost(ctx context.Context, input CostInput) (CostOutput, error) {
	system := `You are an expert in transport cost estimation for agricultural machinery, specifically CLAAS machines. Estimate the transport cost for the described shipment, taking current market conditions into account. Respond with only a valid JSON object of the form {"estimatedCost": <number>, "costBreakdown": <string>, "currency": <string>} where costBreakdown details base fare, surcharges and taxes.`
	user := fmt.Sprintf(
		"Distance: %g km\nMachine Weight: %g kg\nDimensions (L,W,H): %s meters\nDestination: %s\nMarket Conditions: %s",
		input.Distance, input.MachineWeight, input.Dimensions, input.Destination, input.MarketConditions,
	)

	var out CostOutput
	if err := c.complete(ctx, system, user, &out); err != nil {
		return CostOutput{}, err
	}
	return out, nil
}

func (c *anthropicEstimator) complete(ctx context.Context, system, user string, out any) error {
	reqBody := messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    system,
		Messages: []message{
			{Role: "user", Content: user},
			// Prefill the opening brace to force a JSON reply.
			{Role: "assistant", Content: "{"},
		},
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post(c.apiURL)
	if err != nil {
		return fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("anthropic api error: %s", resp.String())
	}
	if len(respBody.Content) == 0 {
		return fmt.Errorf("empty response from ai")
	}

	raw := stripFences("{" + respBody.Content[0].Text)
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("unmarshal ai response: %w (response was: %s)", err, raw)
	}
	return nil
}

// stripFences removes markdown code fences the model sometimes wraps its
// JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSuffix(s, "```")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
