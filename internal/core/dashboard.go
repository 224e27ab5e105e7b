package core

// DashboardKey is the storage key of the DashboardData snapshot.
const DashboardKey = "dashboardData"

type (
	// DashboardData is the flat, scalar-only variant of the dashboard snapshot.
	DashboardData struct {
		UserName     string          `json:"userName"`
		Balance      float64         `json:"balance"`
		Sales        float64         `json:"sales"`
		Revenue      float64         `json:"revenue"`
		ActivityData ActivityTotals  `json:"activityData"`
		PaymentsData PaymentsSplit   `json:"paymentsData"`
		GoalsData    DashboardGoals  `json:"goalsData"`
		SaleData     MonthComparison `json:"saleData"`
		TimeRange    int             `json:"timeRange"` // days
	}

	ActivityTotals struct {
		OnlineShop float64 `json:"onlineShop"`
		Tax        float64 `json:"tax"`
		Misc       float64 `json:"misc"`
	}

	PaymentsSplit struct {
		Successful float64 `json:"successful"`
		Pending    float64 `json:"pending"`
	}

	GoalProgress struct {
		Target  float64 `json:"target"`
		Current float64 `json:"current"`
	}

	DashboardGoals struct {
		BusinessFunding GoalProgress `json:"businessFunding"`
		TopUpBalance    GoalProgress `json:"topUpBalance"`
	}

	MonthComparison struct {
		ThisMonth []float64 `json:"thisMonth"`
		LastMonth []float64 `json:"lastMonth"`
	}

	// DashboardPatch is a partial DashboardData with the same top-level
	// replace semantics as FinancePatch.
	DashboardPatch struct {
		UserName     *string          `json:"userName,omitempty"`
		Balance      *float64         `json:"balance,omitempty"`
		Sales        *float64         `json:"sales,omitempty"`
		Revenue      *float64         `json:"revenue,omitempty"`
		ActivityData *ActivityTotals  `json:"activityData,omitempty"`
		PaymentsData *PaymentsSplit   `json:"paymentsData,omitempty"`
		GoalsData    *DashboardGoals  `json:"goalsData,omitempty"`
		SaleData     *MonthComparison `json:"saleData,omitempty"`
		TimeRange    *int             `json:"timeRange,omitempty"`
	}
)

// Percent returns the progress towards the target, clamped to [0,100].
func (g GoalProgress) Percent() float64 {
	return ClampPercent(g.Current, g.Target)
}
