package common

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidateUUID(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
	}{
		{name: "valid uuid", input: "550e8400-e29b-41d4-a716-446655440000", expectError: false},
		{name: "valid uuid with surrounding whitespace", input: " 550e8400-e29b-41d4-a716-446655440000 ", expectError: false},
		{name: "empty string", input: "", expectError: true},
		{name: "whitespace only", input: "   ", expectError: true},
		{name: "not a uuid", input: "not-a-uuid", expectError: true},
		{name: "truncated uuid", input: "550e8400-e29b-41d4-a716", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ValidateUUID(tt.input, "id")
			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, uuid.Nil, id)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"), id)
			}
		})
	}
}

func TestValidatePaginationParams(t *testing.T) {
	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults applied", limit: 0, offset: 0, wantLimit: 50, wantOffset: 0},
		{name: "negative values clamped", limit: -5, offset: -10, wantLimit: 50, wantOffset: 0},
		{name: "cap at one thousand", limit: 5000, offset: 20, wantLimit: 1000, wantOffset: 20},
		{name: "valid values kept", limit: 25, offset: 100, wantLimit: 25, wantOffset: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := ValidatePaginationParams(tt.limit, tt.offset)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestHasRole(t *testing.T) {
	ctx := context.WithValue(context.Background(), RolesKey, []string{"manager", "customer"})

	assert.True(t, HasRole(ctx, "manager"))
	assert.False(t, HasRole(ctx, "admin"))
	assert.False(t, HasRole(context.Background(), "manager"), "missing identity must never grant a role")
}

func TestGetUserIDFromContext(t *testing.T) {
	userID := uuid.New()
	ctx := context.WithValue(context.Background(), UserIDKey, userID)

	got, ok := GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, userID, got)

	_, ok = GetUserIDFromContext(context.Background())
	assert.False(t, ok)
}
