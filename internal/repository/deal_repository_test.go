package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/gigwork-backend/internal/pkg/apperror"
)

func TestIsActivePairViolation(t *testing.T) {
	violation := &pq.Error{Code: "23505", Constraint: activePairIndex}
	assert.True(t, isActivePairViolation(violation))
	assert.True(t, isActivePairViolation(fmt.Errorf("deal repository: create %w", violation)))

	otherConstraint := &pq.Error{Code: "23505", Constraint: "reviews_deal_id_key"}
	assert.False(t, isActivePairViolation(otherConstraint))

	otherCode := &pq.Error{Code: "23503", Constraint: activePairIndex}
	assert.False(t, isActivePairViolation(otherCode))

	assert.False(t, isActivePairViolation(errors.New("connection reset")))
	assert.False(t, isActivePairViolation(nil))
}

// Нарушение уникального индекса активной пары должно превращаться в
// доменную ошибку дубликата, остальные ошибки базы — оборачиваться как есть.
func TestMapCreateError(t *testing.T) {
	violation := &pq.Error{Code: "23505", Constraint: activePairIndex}
	assert.ErrorIs(t, mapCreateError(violation), apperror.ErrDuplicateActiveRequest)

	dbErr := errors.New("connection reset")
	mapped := mapCreateError(dbErr)
	assert.NotErrorIs(t, mapped, apperror.ErrDuplicateActiveRequest)
	assert.ErrorIs(t, mapped, dbErr)
}
