// Package advisor explains reorder recommendations in plain language using Gemini.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"inventory/config"
	"inventory/models"
)

// ErrDisabled is returned by the advisor when no API key is configured.
var ErrDisabled = errors.New("advisor is disabled")

// Advisor produces a short narrative for a product's recommendation.
type Advisor interface {
	Explain(ctx context.Context, product models.ProductView) (string, error)
	Close() error
}

// Open returns a Gemini advisor when an API key is configured and a disabled one otherwise.
func Open(ctx context.Context, cfg config.AdvisorConfig) (Advisor, error) {
	if cfg.GeminiAPIKey == "" {
		return Disabled{}, nil
	}
	return NewGemini(ctx, cfg.GeminiAPIKey, cfg.Model)
}

// Gemini calls a Gemini model through the generative-ai-go client.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Explain(ctx context.Context, product models.ProductView) (string, error) {
	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx, genai.Text(BuildPrompt(product)))
	if err != nil {
		return "", fmt.Errorf("failed to generate analysis: %w", err)
	}
	return responseText(resp)
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("empty response from model")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("model returned no text")
	}
	return strings.TrimSpace(sb.String()), nil
}

// BuildPrompt renders the product's stock position and recommendation as a prompt.
func BuildPrompt(p models.ProductView) string {
	var sb strings.Builder
	sb.WriteString("You are an inventory planning assistant. In at most four sentences, explain to a store manager ")
	sb.WriteString("whether this product should be reordered now and why, referring to the numbers below.\n\n")
	fmt.Fprintf(&sb, "Product: %s\n", p.Name)
	if p.SupplierName != nil {
		fmt.Fprintf(&sb, "Supplier: %s\n", *p.SupplierName)
	}
	fmt.Fprintf(&sb, "Quantity on hand: %d\n", p.Quantity)
	fmt.Fprintf(&sb, "Lead time (days): %d\n", p.LeadTime)
	fmt.Fprintf(&sb, "Target service level: %.2f\n", p.ServiceLevel)
	fmt.Fprintf(&sb, "Days of sales history: %d\n", len(p.SalesHistory))
	fmt.Fprintf(&sb, "Average daily demand: %.2f\n", p.AvgDailyDemand)
	fmt.Fprintf(&sb, "Demand standard deviation: %.2f\n", p.DemandStdDev)
	fmt.Fprintf(&sb, "Safety stock: %d\n", p.SafetyStock)
	fmt.Fprintf(&sb, "Reorder point: %d\n", p.ReorderPoint)
	fmt.Fprintf(&sb, "Stock status: %s\n", p.StockStatus)
	fmt.Fprintf(&sb, "Suggested order quantity: %d\n", p.RecommendedOrderQty)
	return sb.String()
}

// Disabled is the advisor used without an API key.
type Disabled struct{}

func (Disabled) Explain(context.Context, models.ProductView) (string, error) { return "", ErrDisabled }
func (Disabled) Close() error                                              { return nil }
