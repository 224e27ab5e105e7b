package services

import (
	"context"
	"fmt"

	"findash/internal/core"
	"findash/internal/snapshot"
)

type (
	// Summary is the dashboard snapshot reduced to view-ready values.
	Summary struct {
		UserName   string         `json:"userName"`
		Avatar     string         `json:"avatar"`
		Balance    CardSummary    `json:"balance"`
		Sells      CardSummary    `json:"sells"`
		Revenue    CardSummary    `json:"revenue"`
		Activity   []ActivityLine `json:"activity"`
		Sale       SaleSummary    `json:"sale"`
		Payments   PaymentsLine   `json:"payments"`
		Goals      []GoalLine     `json:"goals"`
		Violations []string       `json:"violations"`
	}

	CardSummary struct {
		Amount    float64     `json:"amount"`
		Formatted string      `json:"formatted"`
		Average   float64     `json:"average"`
		Period    core.Period `json:"period"`
	}

	ActivityLine struct {
		Name      string  `json:"name"`
		Value     float64 `json:"value"`
		Formatted string  `json:"formatted"`
		Color     string  `json:"color"`
	}

	SaleSummary struct {
		HighestValue float64     `json:"highestValue"`
		Abbreviated  string      `json:"abbreviated"`
		Period       core.Period `json:"period"`
	}

	PaymentsLine struct {
		Successful float64 `json:"successful"`
		Pending    float64 `json:"pending"`
		// Progress is Percentage clamped to [0,100] for the progress ring.
		Progress float64 `json:"progress"`
	}

	GoalLine struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Progress    float64 `json:"progress"`
		Color       string  `json:"color"`
	}
)

// Summarize derives a Summary from d.
func Summarize(d core.FinanceData) Summary {
	sum := Summary{
		UserName: d.User.Name,
		Avatar:   d.User.Avatar,
		Balance: CardSummary{
			Amount:    d.Balance.Amount,
			Formatted: core.FormatCurrency(d.Balance.Amount, d.Balance.Currency),
			Average:   core.Average(d.Balance.ChartData),
			Period:    d.Balance.Period,
		},
		Sells:   seriesSummary(d.Sells),
		Revenue: seriesSummary(d.Revenue),
		Sale: SaleSummary{
			HighestValue: d.Sale.HighestValue,
			Abbreviated:  core.FormatNumber(d.Sale.HighestValue),
			Period:       d.Sale.Period,
		},
		Payments: PaymentsLine{
			Successful: d.Payments.Successful,
			Pending:    d.Payments.Pending,
			Progress:   core.ClampPercent(d.Payments.Percentage, 100),
		},
		Activity:   make([]ActivityLine, 0, len(d.Activity.Items)),
		Goals:      make([]GoalLine, 0, len(d.Goals.Items)),
		Violations: d.Violations(),
	}
	for _, it := range d.Activity.Items {
		sum.Activity = append(sum.Activity, ActivityLine{
			Name:      it.Name,
			Value:     it.Value,
			Formatted: core.FormatCurrency(it.Value, ""),
			Color:     it.Color,
		})
	}
	for _, g := range d.Goals.Items {
		sum.Goals = append(sum.Goals, GoalLine{
			Name:        g.Name,
			Description: g.Description,
			Progress:    core.ClampPercent(g.Percentage, 100),
			Color:       g.Color,
		})
	}
	if sum.Violations == nil {
		sum.Violations = []string{}
	}
	return sum
}

func seriesSummary(s core.SeriesData) CardSummary {
	return CardSummary{
		Amount:    s.Amount,
		Formatted: core.FormatCurrency(s.Amount, s.Currency),
		Average:   core.Average(s.Values()),
		Period:    s.Period,
	}
}

// DashboardService serves read-only views of the finance snapshot.
type DashboardService struct {
	store *snapshot.Store[core.FinanceData]
}

func NewDashboardService(store *snapshot.Store[core.FinanceData]) *DashboardService {
	return &DashboardService{store: store}
}

func (s *DashboardService) Summary(ctx context.Context) (Summary, error) {
	d, err := s.store.Get(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load snapshot: %w", err)
	}
	return Summarize(d), nil
}

// Violations returns the advisory invariant report of the stored snapshot.
func (s *DashboardService) Violations(ctx context.Context) ([]string, error) {
	d, err := s.store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	v := d.Violations()
	if v == nil {
		v = []string{}
	}
	return v, nil
}

// StoredViolations reports on the stored snapshot without seeding it.
// found is false when nothing usable is stored.
func (s *DashboardService) StoredViolations(ctx context.Context) (violations []string, found bool, err error) {
	d, found, err := s.store.Peek(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("peek snapshot: %w", err)
	}
	if !found {
		return nil, false, nil
	}
	return d.Violations(), true, nil
}
