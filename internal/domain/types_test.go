package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemExpiredAsOf(t *testing.T) {
	today := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

	yesterday := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	sameDay := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)

	assert.True(t, (&Item{ExpiresOn: &yesterday}).ExpiredAsOf(today))
	assert.False(t, (&Item{ExpiresOn: &sameDay}).ExpiredAsOf(today), "an item dated today is not expired")
	assert.False(t, (&Item{ExpiresOn: &tomorrow}).ExpiredAsOf(today))
	assert.False(t, (&Item{}).ExpiredAsOf(today), "items without a date never expire")
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("31/01/2025")
	assert.Error(t, err)
}

func TestItemClone(t *testing.T) {
	exp := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	orig := &Item{ID: 3, Name: "Oats", Category: "Grains", Quantity: 2, ExpiresOn: &exp}

	c := orig.Clone()
	assert.Equal(t, orig, c)

	c.Quantity--
	*c.ExpiresOn = exp.AddDate(0, 0, 1)
	assert.Equal(t, 2, orig.Quantity)
	assert.Equal(t, exp, *orig.ExpiresOn)
}
