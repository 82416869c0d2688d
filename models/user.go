package models

import "time"

type User struct {
	UserID        string    `json:"userid" bson:"userid"`
	Email         string    `json:"email" bson:"email"`
	PasswordHash  string    `json:"-" bson:"password_hash"`
	DisplayName   string    `json:"displayName" bson:"display_name"`
	Role          []string  `json:"role" bson:"role"`
	RefreshToken  string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refresh_expiry,omitempty"`
	LastLogin     time.Time `json:"lastLogin" bson:"last_login"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updated_at"`
}

// Profile is the secondary record written best-effort after the identity
// is created. A missing profile never blocks sign-in.
type Profile struct {
	UserID      string    `json:"userid" bson:"userid"`
	Email       string    `json:"email" bson:"email"`
	DisplayName string    `json:"displayName" bson:"display_name"`
	Phone       string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Address     *Address  `json:"address,omitempty" bson:"address,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}

// IdempotencyRecord guards mutating endpoints against duplicate
// submission when the client supplies an Idempotency-Key.
type IdempotencyRecord struct {
	Key         string                 `bson:"key"`
	Method      string                 `bson:"method"`
	Path        string                 `bson:"path"`
	UserID      string                 `bson:"userid"`
	RequestHash string                 `bson:"request_hash"`
	Response    map[string]interface{} `bson:"response,omitempty"`
	CreatedAt   time.Time              `bson:"created_at"`
	ExpiresAt   time.Time              `bson:"expires_at"`
}
