package models

import "testing"

func TestCalculateEarnings(t *testing.T) {
	cases := []struct {
		name              string
		views             int64
		cpm               float64
		minViewsForPayout int64
		want              float64
	}{
		{"5000 views at CPM 5", 5000, 5.00, 1000, 25.00},
		{"below payout threshold", 999, 5.00, 1000, 0},
		{"exactly at threshold", 1000, 5.00, 1000, 5.00},
		{"zero views", 0, 5.00, 1000, 0},
		{"rounds half up", 1234, 4.05, 1000, 5.00}, // 4.99770 -> 5.00
		{"fractional cents", 1500, 3.33, 1000, 5.00},
		{"high volume", 1000000, 2.50, 1000, 2500.00},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateEarnings(tc.views, tc.cpm, tc.minViewsForPayout)
			if got != tc.want {
				t.Errorf("CalculateEarnings(%d, %.2f, %d) = %.4f, want %.2f",
					tc.views, tc.cpm, tc.minViewsForPayout, got, tc.want)
			}
		})
	}
}

func TestValidTimestamp(t *testing.T) {
	valid := []string{"00:00:00", "01:30:45", "99:59:59"}
	for _, ts := range valid {
		if !ValidTimestamp(ts) {
			t.Errorf("ValidTimestamp(%q) = false, want true", ts)
		}
	}
	invalid := []string{"1:30:45", "01:30", "01-30-45", "01:30:45.5", "", "aa:bb:cc"}
	for _, ts := range invalid {
		if ValidTimestamp(ts) {
			t.Errorf("ValidTimestamp(%q) = true, want false", ts)
		}
	}
}

func TestClipValidate(t *testing.T) {
	clip := Clip{
		ClipID:            "clip-1",
		CampaignID:        "camp-1",
		CreatorID:         "user-1",
		ClipLink:          "https://tiktok.com/@creator/video/1",
		OriginalVideoLink: "https://youtube.com/watch?v=abc123",
		ClipTimestamps:    []string{"00:01:30", "00:02:00"},
		Status:            ClipPending,
	}
	if msgs := clip.Validate(); len(msgs) != 0 {
		t.Fatalf("valid clip rejected: %v", msgs)
	}

	clip.ClipTimestamps = []string{"00:01:30", "bad"}
	if msgs := clip.Validate(); len(msgs) != 1 {
		t.Errorf("expected one timestamp message, got %v", msgs)
	}

	empty := Clip{Status: "bogus", Views: -1}
	if msgs := empty.Validate(); len(msgs) < 5 {
		t.Errorf("expected multiple simultaneous field messages, got %v", msgs)
	}
}
