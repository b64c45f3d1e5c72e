package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOfUsesFixedOffset(t *testing.T) {
	// 2024-03-14 20:30 UTC is already 2024-03-15 in JST
	utc := time.Date(2024, 3, 14, 20, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-15", DateOf(utc).String())

	// Same instant expressed in another zone must land on the same day
	ny := utc.In(time.FixedZone("EST", -5*60*60))
	assert.True(t, DateOf(ny).Equal(DateOf(utc)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.February, 29), d)
	assert.Equal(t, "2024-02-29", d.String())

	for _, bad := range []string{"", "2024/02/29", "2023-02-29", "20240229", "2024-2-9"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
		assert.True(t, errors.Is(err, ErrInvalidDate), bad)
	}
}

func TestDateArithmeticAcrossMonths(t *testing.T) {
	d := NewDate(2024, time.March, 1)
	assert.Equal(t, "2024-02-22", d.AddDays(-8).String())
	assert.Equal(t, "2024-03-02", d.AddDays(1).String())
	assert.Equal(t, 24*time.Hour, d.End().Sub(d.Start()))
}

func TestDateCompare(t *testing.T) {
	a := NewDate(2024, time.March, 7)
	b := NewDate(2024, time.March, 14)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 0, a.Compare(a.AddDays(0)))
}

func TestDateText(t *testing.T) {
	var d Date
	require.NoError(t, d.UnmarshalText([]byte("2024-03-07")))
	out, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-07", string(out))

	require.NoError(t, d.UnmarshalText(nil))
	assert.True(t, d.IsZero())
	assert.Equal(t, "", d.String())
}

func TestToday(t *testing.T) {
	clock := FixedClock(time.Date(2024, 3, 15, 0, 0, 1, 0, JST))
	assert.Equal(t, "2024-03-15", Today(clock).String())
}
