package models

import "time"

// PerformanceMetrics is one append-only waste/revenue/compliance observation
// for a panchayat. Records are never mutated after insert.
type PerformanceMetrics struct {
	ID              string    `db:"id" json:"id"`
	GramPanchayatID string    `db:"gram_panchayat_id" json:"gramPanchayatId"`
	DateRecorded    time.Time `db:"date_recorded" json:"dateRecorded"`
	WetWaste        float64   `db:"wet_waste" json:"wetWaste"`
	DryWaste        float64   `db:"dry_waste" json:"dryWaste"`
	SanitaryWaste   float64   `db:"sanitary_waste" json:"sanitaryWaste"`
	Revenue         float64   `db:"revenue" json:"revenue"`
	ComplianceScore float64   `db:"compliance_score" json:"complianceScore"`
	LastUpdated     time.Time `db:"last_updated" json:"lastUpdated"`
}

// MetricsRange bounds a history query. Zero times leave that side unbounded.
type MetricsRange struct {
	From  time.Time
	To    time.Time
	Order SortOrder
}

// SortOrder selects the direction of an ordered result set.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// WasteTrendPoint is one day's fleet-wide aggregation used by trend charts.
type WasteTrendPoint struct {
	Date          string  `db:"date" json:"date"`
	WetWaste      float64 `db:"wet_waste" json:"wetWaste"`
	DryWaste      float64 `db:"dry_waste" json:"dryWaste"`
	SanitaryWaste float64 `db:"sanitary_waste" json:"sanitaryWaste"`
	Revenue       float64 `db:"revenue" json:"revenue"`
}

// FleetTotals aggregates each panchayat's latest observation.
type FleetTotals struct {
	WetWaste           float64 `db:"wet_waste" json:"wetWaste"`
	DryWaste           float64 `db:"dry_waste" json:"dryWaste"`
	SanitaryWaste      float64 `db:"sanitary_waste" json:"sanitaryWaste"`
	Revenue            float64 `db:"revenue" json:"revenue"`
	AvgComplianceScore float64 `db:"avg_compliance_score" json:"avgComplianceScore"`
}
