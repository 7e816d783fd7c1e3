package models

import "time"

// Session represents a persisted login session. impersonated_by is set when
// the session was issued by an administrator acting as the user.
type Session struct {
	ID             string    `db:"id" json:"id"`
	Token          string    `db:"token" json:"token"`
	UserID         string    `db:"user_id" json:"userId"`
	ExpiresAt      time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	IPAddress      *string   `db:"ip_address" json:"ipAddress,omitempty"`
	UserAgent      string    `db:"user_agent" json:"userAgent"`
	ImpersonatedBy *string   `db:"impersonated_by" json:"impersonatedBy,omitempty"`
}
