package models

import "time"

// PanchayatStatus enumerates the operational states of a Gram Panchayat.
type PanchayatStatus string

const (
	PanchayatActive   PanchayatStatus = "Active"
	PanchayatInactive PanchayatStatus = "Inactive"
)

// GramPanchayat represents a village-level administrative unit stored in the
// gram_panchayats table. mrf_mapped is true exactly when mrf_unit_id is
// non-null; the repository only ever writes the three mapping fields together.
type GramPanchayat struct {
	ID           string          `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	Taluk        string          `db:"taluk" json:"taluk"`
	Village      string          `db:"village" json:"village"`
	Sarpanch     string          `db:"sarpanch" json:"sarpanch"`
	Status       PanchayatStatus `db:"status" json:"status"`
	MRFMapped    bool            `db:"mrf_mapped" json:"mrfMapped"`
	MRFUnitID    *string         `db:"mrf_unit_id" json:"mrfUnitId"`
	MRFUnitName  *string         `db:"mrf_unit_name" json:"mrfUnitName"`
	UserID       *string         `db:"user_id" json:"userId"`
	DateCreated  time.Time       `db:"date_created" json:"dateCreated"`
	Households   int             `db:"households" json:"households"`
	Shops        int             `db:"shops" json:"shops"`
	Institutions int             `db:"institutions" json:"institutions"`
	SWMSheds     int             `db:"swm_sheds" json:"swmSheds"`
}
