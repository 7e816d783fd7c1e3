package models

import "time"

// UserRole represents the available roles for the admin panel.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// User represents an auth provider account stored in the users table.
type User struct {
	ID             string     `db:"id" json:"id"`
	Email          string     `db:"email" json:"email"`
	PasswordHash   string     `db:"password_hash" json:"-"`
	Name           string     `db:"name" json:"name"`
	EmailVerified  bool       `db:"email_verified" json:"emailVerified"`
	Image          *string    `db:"image" json:"image,omitempty"`
	Role           UserRole   `db:"role" json:"role"`
	Banned         bool       `db:"banned" json:"banned"`
	BanReason      *string    `db:"ban_reason" json:"banReason,omitempty"`
	BanExpires     *time.Time `db:"ban_expires" json:"banExpires,omitempty"`
	ContactDetails *string    `db:"contact_details" json:"contactDetails,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updatedAt"`
}

// ListUsersQuery captures the recognized options of the user listing API.
type ListUsersQuery struct {
	SearchValue    string `json:"searchValue" form:"searchValue"`
	SearchField    string `json:"searchField" form:"searchField" validate:"omitempty,oneof=email name"`
	SearchOperator string `json:"searchOperator" form:"searchOperator" validate:"omitempty,oneof=contains starts_with ends_with"`
	Limit          int    `json:"limit" form:"limit" validate:"omitempty,min=1,max=100"`
	Offset         int    `json:"offset" form:"offset" validate:"omitempty,min=0"`
	SortBy         string `json:"sortBy" form:"sortBy"`
	SortDirection  string `json:"sortDirection" form:"sortDirection" validate:"omitempty,oneof=asc desc"`
	FilterField    string `json:"filterField" form:"filterField"`
	FilterValue    string `json:"filterValue" form:"filterValue"`
	FilterOperator string `json:"filterOperator" form:"filterOperator" validate:"omitempty,oneof=eq ne lt lte gt gte"`
}

// UserList is the normalized listing response shape.
type UserList struct {
	Users  []User `json:"users"`
	Total  int    `json:"total"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}
