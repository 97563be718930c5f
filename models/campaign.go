// models/campaign.go
package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Campaign statuses
const (
	CampaignPending   = "pending"
	CampaignLive      = "live"
	CampaignCompleted = "completed"
	CampaignRejected  = "rejected"
)

// Campaign model. Deposit bounds the maximum payout liability: the
// funding guard deposit*1000 >= goalViews*CPM holds at every committed
// state. Deposit grows only when a linked deposit payment completes.
type Campaign struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CampaignID        string             `json:"campaignId" bson:"campaignId"`
	BrandID           string             `json:"brandId" bson:"brandId"`
	Title             string             `json:"title" bson:"title"`
	Description       string             `json:"description" bson:"description"`
	SourceVideos      []string           `json:"sourceVideos" bson:"sourceVideos"`
	GoalViews         int64              `json:"goalViews" bson:"goalViews"`
	CPM               float64            `json:"cpm" bson:"cpm"`
	Deposit           float64            `json:"deposit" bson:"deposit"`
	MinViewsForPayout int64              `json:"minViewsForPayout" bson:"minViewsForPayout"`
	Status            string             `json:"status" bson:"status"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CreateCampaignRequest struct {
	// BrandID lets an admin create a campaign on a brand's behalf;
	// ignored for brand callers, who always own what they create.
	BrandID           string   `json:"brandId,omitempty"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	SourceVideos      []string `json:"sourceVideos"`
	GoalViews         int64    `json:"goalViews"`
	CPM               float64  `json:"cpm"`
	Deposit           float64  `json:"deposit"`
	MinViewsForPayout int64    `json:"minViewsForPayout"`
}

type UpdateCampaignRequest struct {
	Title             *string  `json:"title,omitempty"`
	Description       *string  `json:"description,omitempty"`
	SourceVideos      []string `json:"sourceVideos,omitempty"`
	GoalViews         *int64   `json:"goalViews,omitempty"`
	CPM               *float64 `json:"cpm,omitempty"`
	Deposit           *float64 `json:"deposit,omitempty"`
	MinViewsForPayout *int64   `json:"minViewsForPayout,omitempty"`
}

type UpdateCampaignStatusRequest struct {
	Status string `json:"status"`
}

// ValidCampaignStatus reports whether status is a known campaign status.
func ValidCampaignStatus(status string) bool {
	switch status {
	case CampaignPending, CampaignLive, CampaignCompleted, CampaignRejected:
		return true
	}
	return false
}

// CoversGoal reports whether a deposit covers the maximum payout
// liability for the given view goal and CPM. Both sides are scaled by
// 1000 views so the comparison avoids dividing the view goal.
func CoversGoal(deposit float64, goalViews int64, cpm float64) bool {
	return deposit*1000 >= float64(goalViews)*cpm
}

// Validate enforces every campaign invariant applied at create and
// update time. minCPM and minViews are the live platform settings.
// Returned messages are field-level; an empty slice means valid.
func (c *Campaign) Validate(minCPM float64, minViews int64) []string {
	var msgs []string

	if len(c.Title) < 5 {
		msgs = append(msgs, "title: Title must be at least 5 characters")
	}
	if c.Description == "" {
		msgs = append(msgs, "description: Description is required")
	}
	if len(c.SourceVideos) == 0 {
		msgs = append(msgs, "sourceVideos: At least one source video is required")
	}
	if c.GoalViews <= 0 {
		msgs = append(msgs, "goalViews: Goal views must be a positive integer")
	}
	if c.CPM < minCPM {
		msgs = append(msgs, fmt.Sprintf("cpm: CPM must be at least the platform minimum of %.2f", minCPM))
	}
	if c.MinViewsForPayout < minViews {
		msgs = append(msgs, fmt.Sprintf("minViewsForPayout: Minimum views for payout must be at least the platform floor of %d", minViews))
	}
	if !CoversGoal(c.Deposit, c.GoalViews, c.CPM) {
		msgs = append(msgs, fmt.Sprintf("deposit: Deposit %.2f does not cover the maximum payout of %.2f for the view goal",
			c.Deposit, float64(c.GoalViews)/1000*c.CPM))
	}
	if !ValidCampaignStatus(c.Status) {
		msgs = append(msgs, "status: Status must be pending, live, completed, or rejected")
	}
	return msgs
}
