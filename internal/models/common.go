package models

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Limit      int `json:"limit"`
	Offset     int `json:"offset"`
	TotalCount int `json:"total_count"`
}

// FieldChange is one explicit column assignment applied during a partial
// update. A change list carries only the fields the caller intends to touch,
// so "no change" and "set to a new value" never collide.
type FieldChange struct {
	Column string
	Value  interface{}
}
