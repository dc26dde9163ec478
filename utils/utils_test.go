package utils

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBeginningOfDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	ts := time.Date(2024, 7, 15, 23, 45, 12, 500, loc)
	start := BeginningOfDay(ts)

	require.Equal(t, time.Date(2024, 7, 15, 0, 0, 0, 0, loc), start)
	require.Equal(t, loc, start.Location())
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2024, 7, 15, 23, 59, 0, 0, time.UTC)
	end := time.Date(2024, 7, 16, 0, 1, 0, 0, time.UTC)

	require.Equal(t, 1, DaysBetween(start, end))
	require.Equal(t, 0, DaysBetween(start, start))
}

func TestRound2(t *testing.T) {
	require.Equal(t, 192.0, Round2(150*1.28))
	require.Equal(t, 0.13, Round2(0.125))
	require.Equal(t, 10.0, Round2(10.0001))
}

func TestValidatePIN(t *testing.T) {
	require.True(t, ValidatePIN("4321"))
	require.False(t, ValidatePIN("432"))
	require.False(t, ValidatePIN("43210"))
	require.False(t, ValidatePIN("43a1"))
	require.False(t, ValidatePIN(""))
}

func TestValidatePhone(t *testing.T) {
	require.True(t, ValidatePhone("+34 612 345 678"))
	require.True(t, ValidatePhone("612345678"))
	require.False(t, ValidatePhone("not-a-phone"))
	require.False(t, ValidatePhone("+0123"))
}

func TestGenerateRandomString(t *testing.T) {
	s := GenerateRandomString(6)
	require.Len(t, s, 6)
	for _, r := range s {
		require.Contains(t, randomAlphabet, string(r))
	}
}

func TestKindOf(t *testing.T) {
	require.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	require.Equal(t, KindInvalidState, KindOf(InvalidState("bad state")))
	require.Equal(t, KindUnauthorized, KindOf(Unauthorized("no")))
	require.Equal(t, KindConflict, KindOf(Conflict("again")))

	// Wrapped errors still classify
	wrapped := fmt.Errorf("loading order: %w", NotFound("missing"))
	require.Equal(t, KindNotFound, KindOf(wrapped))

	require.Equal(t, ErrorKind(0), KindOf(errors.New("plain")))
	require.Equal(t, ErrorKind(0), KindOf(nil))
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2-secret")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2-secret", hash)
	require.True(t, CheckPasswordHash("hunter2-secret", hash))
	require.False(t, CheckPasswordHash("wrong", hash))
}
