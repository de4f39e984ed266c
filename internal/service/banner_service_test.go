package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContrastTextColor(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  string
	}{
		{"white gradient gets black text", "#FFFFFF", "#FFFFFF", "#000000"},
		{"black gradient gets white text", "#000000", "#000000", "#FFFFFF"},
		{"light orange gets black text", "#FFD966", "#FFE599", "#000000"},
		{"dark blue gets white text", "#1A237E", "#283593", "#FFFFFF"},
		{"mixed extremes average out light", "#FFFFFF", "#CCCCCC", "#000000"},
		{"short hex form", "#FFF", "#FFF", "#000000"},
		{"one invalid color falls back to the other", "not-a-color", "#000000", "#FFFFFF"},
		{"both invalid defaults to white text", "", "junk", "#FFFFFF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContrastTextColor(tt.start, tt.end))
		})
	}
}
