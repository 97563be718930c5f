// models/clip.go
package models

import (
	"math"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Clip statuses
const (
	ClipPending  = "pending"
	ClipApproved = "approved"
	ClipFlagged  = "flagged"
)

var timestampRegex = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)

// Clip model. Views are written by the external view tracker; earnings
// are always recomputed from scratch so repeated updates with the same
// view count are idempotent. Wallets are only touched by the accrual
// and settlement steps, never by view updates.
type Clip struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ClipID            string             `json:"clipId" bson:"clipId"`
	CampaignID        string             `json:"campaignId" bson:"campaignId"`
	CreatorID         string             `json:"creatorId" bson:"creatorId"`
	ClipLink          string             `json:"clipLink" bson:"clipLink"`
	OriginalVideoLink string             `json:"originalVideoLink" bson:"originalVideoLink"`
	ClipTimestamps    []string           `json:"clipTimestamps,omitempty" bson:"clipTimestamps,omitempty"`
	EditDescription   string             `json:"editDescription,omitempty" bson:"editDescription,omitempty"`
	Views             int64              `json:"views" bson:"views"`
	Earnings          float64            `json:"earnings" bson:"earnings"`
	Status            string             `json:"status" bson:"status"`
	AccruedAmount     float64            `json:"accruedAmount" bson:"accruedAmount"`
	AccruedAt         *time.Time         `json:"accruedAt,omitempty" bson:"accruedAt,omitempty"`
	SettledAt         *time.Time         `json:"settledAt,omitempty" bson:"settledAt,omitempty"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type SubmitClipRequest struct {
	CampaignID        string   `json:"campaignId"`
	ClipLink          string   `json:"clipLink"`
	OriginalVideoLink string   `json:"originalVideoLink"`
	ClipTimestamps    []string `json:"clipTimestamps,omitempty"`
	EditDescription   string   `json:"editDescription,omitempty"`
}

type UpdateClipStatusRequest struct {
	Status string `json:"status"`
}

type UpdateClipViewsRequest struct {
	Views int64 `json:"views"`
}

// ValidClipStatus reports whether status is a known clip status.
func ValidClipStatus(status string) bool {
	switch status {
	case ClipPending, ClipApproved, ClipFlagged:
		return true
	}
	return false
}

// ValidTimestamp reports whether ts matches HH:MM:SS.
func ValidTimestamp(ts string) bool {
	return timestampRegex.MatchString(ts)
}

// CalculateEarnings derives clip earnings from a view count and the
// owning campaign's CPM. Below the campaign's payout threshold a clip
// earns nothing; otherwise (views/1000)*CPM rounded half-up to cents.
func CalculateEarnings(views int64, cpm float64, minViewsForPayout int64) float64 {
	if views < minViewsForPayout {
		return 0
	}
	return math.Round(float64(views)/1000*cpm*100) / 100
}

// Validate checks the clip invariants applied at submission time.
func (cl *Clip) Validate() []string {
	var msgs []string

	if cl.CampaignID == "" {
		msgs = append(msgs, "campaignId: Campaign ID is required")
	}
	if cl.CreatorID == "" {
		msgs = append(msgs, "creatorId: Creator ID is required")
	}
	if cl.ClipLink == "" {
		msgs = append(msgs, "clipLink: Clip link is required")
	}
	if cl.OriginalVideoLink == "" {
		msgs = append(msgs, "originalVideoLink: Original video link is required")
	}
	for _, ts := range cl.ClipTimestamps {
		if !ValidTimestamp(ts) {
			msgs = append(msgs, "clipTimestamps: Timestamps must match HH:MM:SS")
			break
		}
	}
	if cl.Views < 0 {
		msgs = append(msgs, "views: Views cannot be negative")
	}
	if cl.Earnings < 0 {
		msgs = append(msgs, "earnings: Earnings cannot be negative")
	}
	if !ValidClipStatus(cl.Status) {
		msgs = append(msgs, "status: Status must be pending, approved, or flagged")
	}
	return msgs
}
