// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gymfusion/gymfusion/pkg/pagination"
)

/*
TestFromRequest verifies query parameter parsing and clamping.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, 20},
		{"explicit", "page=3&limit=50", 3, 50},
		{"zero_page_clamped", "page=0", 1, 20},
		{"negative_limit_clamped", "limit=-5", 1, 20},
		{"excessive_limit_clamped", "limit=9999", 1, 20},
		{"non_numeric_ignored", "page=abc&limit=xyz", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/equipment?"+tt.query, nil)
			params := pagination.FromRequest(r)

			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}

/*
TestParams_Offset verifies SQL offset derivation from page and limit.
*/
func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 20, pagination.Params{Page: 2, Limit: 20}.Offset())
	assert.Equal(t, 90, pagination.Params{Page: 10, Limit: 10}.Offset())
	assert.Equal(t, 0, pagination.Params{Page: 0, Limit: 20}.Offset())
}

/*
TestNewMeta verifies total page calculation, including partial last pages.
*/
func TestNewMeta(t *testing.T) {
	// 1. Exact division
	meta := pagination.NewMeta(1, 20, 40)
	assert.Equal(t, 2, meta.TotalPages)

	// 2. Partial last page rounds up
	meta = pagination.NewMeta(1, 20, 41)
	assert.Equal(t, 3, meta.TotalPages)

	// 3. Empty result set
	meta = pagination.NewMeta(1, 20, 0)
	assert.Equal(t, 0, meta.TotalPages)
	assert.Equal(t, 0, meta.Total)
}
