package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestPeriodValidate(t *testing.T) {
	for _, p := range Periods() {
		if err := p.Validate(); err != nil {
			t.Fatalf("period %q expected ok, got %v", p, err)
		}
	}
	for _, p := range []Period{"", "7days", "1 year", "7 Days"} {
		err := p.Validate()
		if err == nil {
			t.Fatalf("period %q expected error", p)
		}
		if !errors.Is(err, ErrInvalidPeriod) {
			t.Fatalf("period %q: expected ErrInvalidPeriod, got %v", p, err)
		}
	}
}

func TestDefaultFinanceDataIsFresh(t *testing.T) {
	a := DefaultFinanceData()
	a.Balance.ChartData[0] = -1
	a.Goals.Items[0].Name = "mutated"

	b := DefaultFinanceData()
	if b.Balance.ChartData[0] != 18 {
		t.Fatalf("defaults share chart slice: got %v", b.Balance.ChartData[0])
	}
	if b.Goals.Items[0].Name != "Business Funding" {
		t.Fatalf("defaults share goal slice: got %q", b.Goals.Items[0].Name)
	}
}

func TestDefaultFinanceDataHasNoViolations(t *testing.T) {
	if v := DefaultFinanceData().Violations(); len(v) != 0 {
		t.Fatalf("expected no violations, got %v", v)
	}
}

func TestFinanceDataJSONFieldNames(t *testing.T) {
	raw, err := json.Marshal(DefaultFinanceData())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"user", "balance", "sells", "revenue", "activity", "sale", "payments", "goals"} {
		if _, ok := top[k]; !ok {
			t.Fatalf("missing top-level key %q in %s", k, raw)
		}
	}
	if len(top) != 8 {
		t.Fatalf("expected 8 top-level keys, got %d", len(top))
	}
	for _, want := range []string{`"chartData"`, `"highestValue"`, `"thisMonth"`, `"lastMonth"`, `"period":"7 days"`} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("expected %s in %s", want, raw)
		}
	}
}

func TestFinancePatchOmitsNilSections(t *testing.T) {
	name := User{Name: "Ada"}
	raw, err := json.Marshal(FinancePatch{User: &name})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(raw), `{"user":{"name":"Ada","avatar":""}}`; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestViolations(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*FinanceData)
		want   []string
	}{
		{
			name:   "payments sum",
			mutate: func(d *FinanceData) { d.Payments.Pending = 10 },
			want:   []string{"payments:"},
		},
		{
			name:   "highest value below chart",
			mutate: func(d *FinanceData) { d.Sale.HighestValue = 100 },
			want:   []string{"sale:"},
		},
		{
			name:   "empty chart skips bound",
			mutate: func(d *FinanceData) { d.Sale.HighestValue = 0; d.Sale.ChartData = nil },
		},
		{
			name: "goal out of range",
			mutate: func(d *FinanceData) {
				d.Goals.Items[0].Percentage = 120
				d.Goals.Items[1].Percentage = -1
			},
			want: []string{"goals[0]", "goals[1]"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := DefaultFinanceData()
			tc.mutate(&d)
			got := d.Violations()
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d violations, got %v", len(tc.want), got)
			}
			for i, prefix := range tc.want {
				if !strings.HasPrefix(got[i], prefix) {
					t.Fatalf("violation %d = %q, want prefix %q", i, got[i], prefix)
				}
			}
		})
	}
}

func TestSaleMaxValue(t *testing.T) {
	s := SaleData{ChartData: []SalePoint{
		{ThisMonth: 10, LastMonth: 30},
		{ThisMonth: 25, LastMonth: 5},
	}}
	if got := s.MaxValue(); got != 30 {
		t.Fatalf("expected 30, got %v", got)
	}
	if got := (SaleData{}).MaxValue(); got != 0 {
		t.Fatalf("expected 0 for empty chart, got %v", got)
	}
}

func TestGoalProgressPercent(t *testing.T) {
	d := DefaultDashboardData()
	if got := d.GoalsData.BusinessFunding.Percent(); got != 80 {
		t.Fatalf("expected 80, got %v", got)
	}
	if got := d.GoalsData.TopUpBalance.Percent(); got != 90 {
		t.Fatalf("expected 90, got %v", got)
	}
	if got := (GoalProgress{Target: 0, Current: 5}).Percent(); got != 0 {
		t.Fatalf("expected 0 for zero target, got %v", got)
	}
}
