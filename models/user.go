// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleCreator = "creator"
	RoleBrand   = "brand"
	RoleAdmin   = "admin"
)

// Credential kinds
const (
	CredentialLocal  = "local"
	CredentialGoogle = "google"
)

// Credential is a tagged variant over the way a user authenticates.
// Exactly one arm is populated: local accounts carry a bcrypt hash,
// federated accounts carry the provider and its external user id.
type Credential struct {
	Kind         string `json:"kind" bson:"kind"`
	PasswordHash string `json:"-" bson:"passwordHash,omitempty"`
	Provider     string `json:"provider,omitempty" bson:"provider,omitempty"`
	ExternalID   string `json:"-" bson:"externalId,omitempty"`
}

// Wallet balances are maintained exclusively through conditional $inc
// updates and must never go negative.
type Wallet struct {
	AvailableBalance    float64 `json:"availableBalance" bson:"availableBalance"`
	PendingBalance      float64 `json:"pendingBalance" bson:"pendingBalance"`
	WithdrawableBalance float64 `json:"withdrawableBalance" bson:"withdrawableBalance"`
}

type SocialAccounts struct {
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
	TikTok    string `json:"tiktok,omitempty" bson:"tiktok,omitempty"`
	YouTube   string `json:"youtube,omitempty" bson:"youtube,omitempty"`
}

// User model. The same email may register once per role; (email, role)
// is enforced unique by an index created at startup.
type User struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID            string             `json:"userId" bson:"userId"`
	Name              string             `json:"name" bson:"name"`
	Email             string             `json:"email" bson:"email"`
	Credential        Credential         `json:"credential" bson:"credential"`
	Role              string             `json:"role" bson:"role"`
	SocialAccounts    SocialAccounts     `json:"socialAccounts" bson:"socialAccounts"`
	Wallet            Wallet             `json:"wallet" bson:"wallet"`
	CanCreateCampaign bool               `json:"canCreateCampaign" bson:"canCreateCampaign"`
	IsActive          bool               `json:"isActive" bson:"isActive"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ValidRole reports whether role is one of the three platform roles.
func ValidRole(role string) bool {
	switch role {
	case RoleCreator, RoleBrand, RoleAdmin:
		return true
	}
	return false
}

// Validate checks the credential variant invariant.
func (c Credential) Validate() []string {
	var msgs []string
	switch c.Kind {
	case CredentialLocal:
		if c.PasswordHash == "" {
			msgs = append(msgs, "Password is required for local accounts")
		}
		if c.Provider != "" || c.ExternalID != "" {
			msgs = append(msgs, "Local accounts cannot carry a federated identity")
		}
	case CredentialGoogle:
		if c.Provider == "" || c.ExternalID == "" {
			msgs = append(msgs, "Provider and external ID are required for federated accounts")
		}
		if c.PasswordHash != "" {
			msgs = append(msgs, "Federated accounts cannot carry a password")
		}
	default:
		msgs = append(msgs, "Auth provider must be local or google")
	}
	return msgs
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
