package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadinessScore(t *testing.T) {
	tests := []struct {
		name               string
		activeProviders    int64
		customers          int64
		completedOrders    int64
		citiesAndDistricts int64
		want               int
	}{
		{"empty governorate", 0, 0, 0, 0, 0},
		{"single provider", 1, 0, 0, 0, 10},
		{"providers capped at 40", 10, 0, 0, 0, 40},
		{"customers capped at 30", 0, 50, 0, 0, 30},
		{"orders capped at 20", 0, 0, 100, 0, 20},
		{"coverage capped at 10", 0, 0, 0, 20, 10},
		{"partial everything", 2, 3, 4, 1, 39},
		{"all caps hit", 100, 100, 100, 100, 100},
		{"never exceeds 100", 1000, 1000, 1000, 1000, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReadinessScore(tt.activeProviders, tt.customers, tt.completedOrders, tt.citiesAndDistricts)
			assert.Equal(t, tt.want, got)
		})
	}
}
