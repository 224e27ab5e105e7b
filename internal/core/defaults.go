package core

// DefaultCurrencySymbol is the currency prefix used when none is given.
const DefaultCurrencySymbol = "₹"

// DefaultAvatar is the avatar of the seeded user.
const DefaultAvatar = "https://cdn-icons-png.flaticon.com/512/1144/1144760.png"

// DefaultFinanceData returns the seed snapshot. Every call builds a fresh
// value so callers may mutate the result freely.
func DefaultFinanceData() FinanceData {
	return FinanceData{
		User: User{
			Name:   "User",
			Avatar: DefaultAvatar,
		},
		Balance: BalanceData{
			Amount:    4509,
			Currency:  DefaultCurrencySymbol,
			ChartData: []float64{18, 35, 25, 45, 30, 55, 40},
			Period:    Period7Days,
		},
		Sells: SeriesData{
			Amount:    1509,
			Currency:  DefaultCurrencySymbol,
			ChartData: weekSeries(10, 30, 15, 40, 30, 45, 25),
			Period:    Period7Days,
		},
		Revenue: SeriesData{
			Amount:    250.09,
			Currency:  DefaultCurrencySymbol,
			ChartData: weekSeries(15, 25, 35, 30, 45, 25, 35),
			Period:    Period7Days,
		},
		Activity: ActivityData{
			Items: []ActivityItem{
				{Name: "Online Shop", Value: 2509, Color: "#4270ED"},
				{Name: "Tax", Value: 350, Color: "#FF5C8E"},
				{Name: "Food", Value: 250, Color: "#FFB74D"},
			},
		},
		Sale: SaleData{
			HighestValue: 25000,
			ChartData: []SalePoint{
				{Name: "Jan", ThisMonth: 5000, LastMonth: 2000},
				{Name: "Feb", ThisMonth: 9000, LastMonth: 8000},
				{Name: "Mar", ThisMonth: 7000, LastMonth: 12000},
				{Name: "Apr", ThisMonth: 15000, LastMonth: 10000},
				{Name: "May", ThisMonth: 12000, LastMonth: 15000},
				{Name: "Jun", ThisMonth: 16000, LastMonth: 17000},
				{Name: "Jul", ThisMonth: 18000, LastMonth: 20000},
			},
			Period: Period7Days,
		},
		Payments: PaymentsData{
			Percentage: 65,
			Successful: 65,
			Pending:    35,
		},
		Goals: GoalsData{
			Items: []Goal{
				{Name: "Business Funding", Description: "Finance Goal", Percentage: 80, Color: "#4270ED"},
				{Name: "Top Up Balance", Description: "Finance Update", Percentage: 70, Color: "#FF5C8E"},
			},
		},
	}
}

// DefaultDashboardData returns the seed of the flat dashboard variant.
func DefaultDashboardData() DashboardData {
	return DashboardData{
		UserName: "Shahin Alam",
		Balance:  4509,
		Sales:    1509,
		Revenue:  2500.09,
		ActivityData: ActivityTotals{
			OnlineShop: 2509,
			Tax:        3.50,
			Misc:       2.60,
		},
		PaymentsData: PaymentsSplit{
			Successful: 65,
			Pending:    35,
		},
		GoalsData: DashboardGoals{
			BusinessFunding: GoalProgress{Target: 10000, Current: 8000},
			TopUpBalance:    GoalProgress{Target: 5000, Current: 4500},
		},
		SaleData: MonthComparison{
			ThisMonth: []float64{5000, 15000, 10000, 20000, 15000, 10000, 18000},
			LastMonth: []float64{3000, 12000, 18000, 8000, 15000, 10000, 20000},
		},
		TimeRange: 7,
	}
}

var weekdays = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func weekSeries(values ...float64) []ChartPoint {
	out := make([]ChartPoint, len(values))
	for i, v := range values {
		out[i] = ChartPoint{Name: weekdays[i%len(weekdays)], Value: v}
	}
	return out
}
