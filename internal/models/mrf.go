package models

import "time"

// MRFStatus enumerates the states of a Material Recovery Facility.
type MRFStatus string

const (
	MRFActive           MRFStatus = "Active"
	MRFInactive         MRFStatus = "Inactive"
	MRFUnderMaintenance MRFStatus = "Under Maintenance"
)

// MRF represents a Material Recovery Facility stored in the mrfs table.
// unit_id is a human-readable code ("MRF-001") that is unique when present;
// records without a code do not participate in the uniqueness constraint.
type MRF struct {
	ID                string     `db:"id" json:"id"`
	UnitID            *string    `db:"unit_id" json:"unitId"`
	Name              string     `db:"name" json:"name"`
	Status            *MRFStatus `db:"status" json:"status"`
	DateCreated       time.Time  `db:"date_created" json:"dateCreated"`
	Taluk             *string    `db:"taluk" json:"taluk"`
	Village           *string    `db:"village" json:"village"`
	Address           *string    `db:"address" json:"address"`
	Phone             *string    `db:"phone" json:"phone"`
	Email             *string    `db:"email" json:"email"`
	ContactPerson     *string    `db:"contact_person" json:"contactPerson"`
	Capacity          *float64   `db:"capacity" json:"capacity"`
	OperationalStatus *string    `db:"operational_status" json:"operationalStatus"`
	Equipment         *string    `db:"equipment" json:"equipment"`
}
