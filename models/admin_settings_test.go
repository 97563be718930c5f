package models

import "testing"

func TestDefaultAdminSettings(t *testing.T) {
	s := DefaultAdminSettings()
	if s.Key != SettingsKey {
		t.Errorf("default key = %q, want %q", s.Key, SettingsKey)
	}
	if s.MinCPM != 0.50 {
		t.Errorf("default minCPM = %v, want 0.50", s.MinCPM)
	}
	if s.MinViewsForPayout != 1000 {
		t.Errorf("default minViewsForPayout = %v, want 1000", s.MinViewsForPayout)
	}
	if s.PlatformCommissionPercentage != 15 {
		t.Errorf("default commission = %v, want 15", s.PlatformCommissionPercentage)
	}
	if s.PayoutSchedule != ScheduleWeekly {
		t.Errorf("default schedule = %q, want weekly", s.PayoutSchedule)
	}
	if msgs := s.Validate(); len(msgs) != 0 {
		t.Errorf("defaults should validate, got %v", msgs)
	}
}

func TestAdminSettingsValidate(t *testing.T) {
	s := DefaultAdminSettings()
	s.MinCPM = 0
	s.MinViewsForPayout = 0
	s.PlatformCommissionPercentage = 101
	s.PayoutSchedule = "daily"
	if msgs := s.Validate(); len(msgs) != 4 {
		t.Errorf("expected 4 messages, got %v", msgs)
	}

	s = DefaultAdminSettings()
	s.PlatformCommissionPercentage = 0
	if msgs := s.Validate(); len(msgs) != 0 {
		t.Errorf("zero commission is legal, got %v", msgs)
	}
}
