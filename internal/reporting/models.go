package reporting

// DashboardCounts are the headline numbers on the dashboard.
type DashboardCounts struct {
	TotalClients   int `json:"totalClients"`
	TotalLawyers   int `json:"totalLawyers"`
	TotalCases     int `json:"totalCases"`
	OngoingCases   int `json:"ongoingCases"`
	ConcludedCases int `json:"concludedCases"`
}

// TypeCount is one slice of the case-type chart.
type TypeCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}
