package core

import (
	"errors"
	"fmt"
)

const (
	Period7Days  Period = "7 days"
	Period14Days Period = "14 days"
	Period30Days Period = "30 days"
	Period90Days Period = "90 days"
)

type (
	// Period is the chart window shown next to a card.
	Period string

	User struct {
		Name   string `json:"name"`
		Avatar string `json:"avatar"`
	}

	// ChartPoint is a named value on a card chart.
	ChartPoint struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
	}

	BalanceData struct {
		Amount    float64   `json:"amount"`
		Currency  string    `json:"currency"`
		ChartData []float64 `json:"chartData"`
		Period    Period    `json:"period"`
	}

	// SeriesData backs both the sells and the revenue cards.
	SeriesData struct {
		Amount    float64      `json:"amount"`
		Currency  string       `json:"currency"`
		ChartData []ChartPoint `json:"chartData"`
		Period    Period       `json:"period"`
	}

	ActivityItem struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
		Color string  `json:"color"`
	}

	ActivityData struct {
		Items []ActivityItem `json:"items"`
	}

	SalePoint struct {
		Name      string  `json:"name"`
		ThisMonth float64 `json:"thisMonth"`
		LastMonth float64 `json:"lastMonth"`
	}

	SaleData struct {
		HighestValue float64     `json:"highestValue"`
		ChartData    []SalePoint `json:"chartData"`
		Period       Period      `json:"period"`
	}

	// PaymentsData splits payments into successful and pending shares.
	// Writers keep Successful+Pending == 100; nothing here enforces it.
	PaymentsData struct {
		Percentage float64 `json:"percentage"`
		Successful float64 `json:"successful"`
		Pending    float64 `json:"pending"`
	}

	Goal struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Percentage  float64 `json:"percentage"`
		Color       string  `json:"color"`
	}

	GoalsData struct {
		Items []Goal `json:"items"`
	}

	// FinanceData is the whole dashboard snapshot persisted under FinanceKey.
	FinanceData struct {
		User     User         `json:"user"`
		Balance  BalanceData  `json:"balance"`
		Sells    SeriesData   `json:"sells"`
		Revenue  SeriesData   `json:"revenue"`
		Activity ActivityData `json:"activity"`
		Sale     SaleData     `json:"sale"`
		Payments PaymentsData `json:"payments"`
		Goals    GoalsData    `json:"goals"`
	}

	// FinancePatch is a partial FinanceData. A non-nil field replaces the
	// whole stored section; nil fields are left untouched.
	FinancePatch struct {
		User     *User         `json:"user,omitempty"`
		Balance  *BalanceData  `json:"balance,omitempty"`
		Sells    *SeriesData   `json:"sells,omitempty"`
		Revenue  *SeriesData   `json:"revenue,omitempty"`
		Activity *ActivityData `json:"activity,omitempty"`
		Sale     *SaleData     `json:"sale,omitempty"`
		Payments *PaymentsData `json:"payments,omitempty"`
		Goals    *GoalsData    `json:"goals,omitempty"`
	}
)

// FinanceKey is the storage key of the FinanceData snapshot.
const FinanceKey = "financeData"

var ErrInvalidPeriod = errors.New("invalid period")

// Periods lists the selectable chart windows in display order.
func Periods() []Period {
	return []Period{Period7Days, Period14Days, Period30Days, Period90Days}
}

func (p Period) Validate() error {
	switch p {
	case Period7Days, Period14Days, Period30Days, Period90Days:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPeriod, string(p))
	}
}

func (p Period) String() string {
	return string(p)
}

// Values returns the chart values of the series in order.
func (s SeriesData) Values() []float64 {
	out := make([]float64, len(s.ChartData))
	for i, p := range s.ChartData {
		out[i] = p.Value
	}
	return out
}

// MaxValue returns the largest thisMonth/lastMonth value across the chart.
func (s SaleData) MaxValue() float64 {
	var max float64
	for i, p := range s.ChartData {
		if i == 0 || p.ThisMonth > max {
			max = p.ThisMonth
		}
		if p.LastMonth > max {
			max = p.LastMonth
		}
	}
	return max
}

// Violations reports broken soft invariants. It is advisory only: the store
// persists records regardless of what it returns.
func (d FinanceData) Violations() []string {
	var out []string
	if sum := d.Payments.Successful + d.Payments.Pending; sum != 100 {
		out = append(out, fmt.Sprintf("payments: successful + pending = %g, want 100", sum))
	}
	if len(d.Sale.ChartData) > 0 {
		if max := d.Sale.MaxValue(); d.Sale.HighestValue < max {
			out = append(out, fmt.Sprintf("sale: highestValue %g is below chart maximum %g", d.Sale.HighestValue, max))
		}
	}
	for i, g := range d.Goals.Items {
		if g.Percentage < 0 || g.Percentage > 100 {
			out = append(out, fmt.Sprintf("goals[%d]: percentage %g outside [0,100]", i, g.Percentage))
		}
	}
	return out
}
