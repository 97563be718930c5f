package models

import (
	"strings"
	"testing"
)

func validCampaign() Campaign {
	return Campaign{
		CampaignID:        "camp-1",
		BrandID:           "user-brand",
		Title:             "Summer Gaming Highlights",
		Description:       "Clip the best moments from our summer streams",
		SourceVideos:      []string{"https://youtube.com/watch?v=abc123"},
		GoalViews:         100000,
		CPM:               5.00,
		Deposit:           500,
		MinViewsForPayout: 1000,
		Status:            CampaignPending,
	}
}

func TestCoversGoal(t *testing.T) {
	// 100000 views at 5.00 CPM needs exactly 500
	if !CoversGoal(500, 100000, 5.00) {
		t.Error("deposit 500 should cover 100000 views at CPM 5.00")
	}
	if CoversGoal(499, 100000, 5.00) {
		t.Error("deposit 499 should not cover 100000 views at CPM 5.00")
	}
	if !CoversGoal(500.01, 100000, 5.00) {
		t.Error("deposit above the bound should cover")
	}
}

func TestCampaignValidate(t *testing.T) {
	c := validCampaign()
	if msgs := c.Validate(0.50, 1000); len(msgs) != 0 {
		t.Fatalf("valid campaign rejected: %v", msgs)
	}
}

func TestCampaignValidateUnderfunded(t *testing.T) {
	c := validCampaign()
	c.Deposit = 499
	msgs := c.Validate(0.50, 1000)
	if len(msgs) != 1 {
		t.Fatalf("expected exactly one message, got %v", msgs)
	}
	if !strings.HasPrefix(msgs[0], "deposit:") {
		t.Errorf("underfunding must be reported on the deposit field, got %q", msgs[0])
	}
}

func TestCampaignValidateFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Campaign)
		field  string
	}{
		{"short title", func(c *Campaign) { c.Title = "abcd" }, "title:"},
		{"missing description", func(c *Campaign) { c.Description = "" }, "description:"},
		{"no source videos", func(c *Campaign) { c.SourceVideos = nil }, "sourceVideos:"},
		{"zero goal views", func(c *Campaign) { c.GoalViews = 0 }, "goalViews:"},
		{"cpm below platform floor", func(c *Campaign) { c.CPM = 0.25; c.Deposit = 1000 }, "cpm:"},
		{"payout threshold below floor", func(c *Campaign) { c.MinViewsForPayout = 500 }, "minViewsForPayout:"},
		{"unknown status", func(c *Campaign) { c.Status = "paused" }, "status:"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validCampaign()
			tc.mutate(&c)
			msgs := c.Validate(0.50, 1000)
			found := false
			for _, m := range msgs {
				if strings.HasPrefix(m, tc.field) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected a %s message, got %v", tc.field, msgs)
			}
		})
	}
}

func TestCampaignValidateCollectsAllErrors(t *testing.T) {
	c := Campaign{Status: "bogus"}
	msgs := c.Validate(0.50, 1000)
	if len(msgs) < 5 {
		t.Errorf("expected multiple simultaneous field messages, got %v", msgs)
	}
}
