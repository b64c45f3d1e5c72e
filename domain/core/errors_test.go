package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	missing := fmt.Errorf("%w: 2024-03-10", ErrDailyResultNotFound)
	assert.True(t, IsNotFoundError(missing))
	assert.False(t, IsValidationError(missing))

	bad := fmt.Errorf("start_date: %w", ErrInvalidDate)
	assert.True(t, IsValidationError(bad))
	assert.True(t, IsValidationError(ErrUnknownCategory))
	assert.False(t, IsNotFoundError(bad))

	assert.False(t, IsValidationError(ErrNoMatches))
}
