package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBannerDerivedStatus(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	tests := []struct {
		name     string
		startsAt *time.Time
		endsAt   *time.Time
		isActive bool
		want     string
	}{
		{"no schedule, active", nil, nil, true, BannerStatusActive},
		{"no schedule, inactive", nil, nil, false, BannerStatusInactive},
		{"started yesterday, open ended, active", &yesterday, nil, true, BannerStatusActive},
		{"starts tomorrow", &tomorrow, nil, true, BannerStatusScheduled},
		{"ended yesterday", nil, &yesterday, true, BannerStatusExpired},
		{"expired wins over scheduled", &tomorrow, &yesterday, true, BannerStatusExpired},
		{"inside window, inactive flag", &yesterday, &tomorrow, false, BannerStatusInactive},
		{"inside window, active flag", &yesterday, &tomorrow, true, BannerStatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Banner{StartsAt: tt.startsAt, EndsAt: tt.endsAt, IsActive: tt.isActive}
			assert.Equal(t, tt.want, b.DerivedStatus(now))
		})
	}
}
