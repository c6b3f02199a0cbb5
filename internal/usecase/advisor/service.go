// Package advisor turns a portfolio valuation into plain-language
// investment advice via a language-model completion.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/portfolio-manager/internal/usecase/valuation"
)

// Completer abstracts the completion API so tests can stub it
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Advice is the structured advice returned to the caller
type Advice struct {
	Recommendations []string `json:"recommendations"`
	Predictions     []string `json:"predictions"`
}

// Service generates investment advice from portfolio data
type Service struct {
	completer Completer
	log       zerolog.Logger
}

// NewService creates a new advisor Service instance
func NewService(completer Completer, log zerolog.Logger) *Service {
	return &Service{
		completer: completer,
		log:       log.With().Str("component", "advisor").Logger(),
	}
}

// GenerateAdvice asks the model for recommendations and predictions based
// on the portfolio composition. Any failure falls back to static advice so
// the endpoint still answers.
func (s *Service) GenerateAdvice(ctx context.Context, portfolio *valuation.Result) *Advice {
	prompt := buildPrompt(portfolio)

	reply, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		s.log.Error().
			Err(err).
			Str("investor", portfolio.InvestorID.String()).
			Msg("Advice generation failed, returning fallback")
		return fallbackAdvice()
	}

	advice, err := parseAdvice(reply)
	if err != nil {
		s.log.Warn().
			Err(err).
			Str("investor", portfolio.InvestorID.String()).
			Msg("Advice reply was not parseable, returning fallback")
		return fallbackAdvice()
	}

	return advice
}

// buildPrompt formats the portfolio breakdown, grouped by instrument type,
// into the instruction for the model.
func buildPrompt(portfolio *valuation.Result) string {
	byType := lo.GroupBy(portfolio.Instruments, func(iv valuation.InstrumentValue) string {
		return iv.TypeName
	})

	var composition strings.Builder
	for typeName, instruments := range byType {
		typeTotal := lo.Reduce(instruments, func(sum decimal.Decimal, iv valuation.InstrumentValue, _ int) decimal.Decimal {
			return sum.Add(iv.Value)
		}, decimal.Zero)
		fmt.Fprintf(&composition, "- %s: %s across %d position(s)\n", typeName, typeTotal.String(), len(instruments))
	}

	return fmt.Sprintf(`You are a professional financial advisor. Based on the following portfolio data as of %s, please provide:

1. Exactly 3 specific investment recommendations
2. Exactly 2 market predictions for the next 6 months

Portfolio data:
- Total portfolio value: %s
- Number of investments: %d
- Investment breakdown by type:
%s
Format your response as JSON with this structure:
{"recommendations": ["...", "...", "..."], "predictions": ["...", "..."]}

Your recommendations should be specific, actionable and based on the portfolio composition. Your predictions should be balanced and realistic.`,
		portfolio.ReferenceDate.Format("2006-01-02"),
		portfolio.TotalValue.String(),
		len(portfolio.Instruments),
		composition.String(),
	)
}

// parseAdvice decodes the model reply, tolerating markdown code fences
// around the JSON body.
func parseAdvice(reply string) (*Advice, error) {
	cleaned := strings.TrimSpace(reply)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	var advice Advice
	if err := json.Unmarshal([]byte(strings.TrimSpace(cleaned)), &advice); err != nil {
		return nil, fmt.Errorf("decoding advice JSON: %w", err)
	}
	if len(advice.Recommendations) == 0 {
		return nil, fmt.Errorf("advice contains no recommendations")
	}
	return &advice, nil
}

func fallbackAdvice() *Advice {
	return &Advice{
		Recommendations: []string{
			"Consider reviewing your portfolio allocation",
			"Consult with a financial advisor",
			"Ensure your investments align with your long-term goals",
		},
		Predictions: []string{
			"Markets may experience volatility in the coming months",
			"Economic indicators suggest cautious optimism",
		},
	}
}
