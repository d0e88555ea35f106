package domain

// KindCounts summarizes one document kind for the dashboard.
type KindCounts struct {
	Total   int64 `json:"total"`
	Pending int64 `json:"pending"` // Non-terminal statuses
	Parked  int64 `json:"parked"`
	MyDesk  int64 `json:"myDesk"` // Currently held by the requesting user
}

// SectionHolding is the number of documents a section currently holds.
type SectionHolding struct {
	SectionID   string `json:"sectionID"`
	SectionName string `json:"sectionName"`
	Count       int64  `json:"count"`
}

// DashboardStats aggregates the landing-page numbers for one user.
type DashboardStats struct {
	Notesheets      KindCounts       `json:"notesheets"`
	Bills           KindCounts       `json:"bills"`
	Letters         KindCounts       `json:"letters"`
	OverdueReplies  int64            `json:"overdueReplies"` // Letters past their reply deadline and not yet replied
	SectionHoldings []SectionHolding `json:"sectionHoldings"`
}
