// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gymfusion/gymfusion/pkg/slug"
)

/*
TestFrom verifies slug generation across casing, accents, punctuation,
and whitespace.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Main Weight Room", "main-weight-room"},
		{"accents", "Crémerie Café", "cremerie-cafe"},
		{"punctuation", "Yoga & Pilates Studio!", "yoga-pilates-studio"},
		{"multiple_spaces", "Spin   Class   Room", "spin-class-room"},
		{"leading_trailing", "  --Cardio Zone--  ", "cardio-zone"},
		{"numbers", "Court 2B", "court-2b"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
