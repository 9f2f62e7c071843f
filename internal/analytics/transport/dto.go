package transport

// ReportRequest is the query for the analytics report.
type ReportRequest struct {
	Months int `form:"months" validate:"omitempty,min=1,max=24"`
}

// MonthlyPoint is one month of revenue and appointment volume.
type MonthlyPoint struct {
	Month        string `json:"month"` // 2006-01
	RevenueCents int64  `json:"revenue_cents"`
	Appointments int    `json:"appointments"`
}

// SpeciesCount is the number of active patients of one species.
type SpeciesCount struct {
	Species string `json:"species"`
	Count   int    `json:"count"`
}

type AnalyticsResponse struct {
	Monthly    []MonthlyPoint `json:"monthly"`
	SpeciesMix []SpeciesCount `json:"species_mix"`
}
