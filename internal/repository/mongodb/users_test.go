package mongodb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cocopets/boarding/internal/domain"
)

func TestMapInsertUserError_DuplicateEmail(t *testing.T) {
	// Code 11000 is mongo's duplicate-key error, raised by the unique email
	// index when a second registration for the same address races the first.
	dup := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000}},
	}

	err := mapInsertUserError(dup)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestMapInsertUserError_OtherErrorsPassThrough(t *testing.T) {
	cause := errors.New("socket closed")

	err := mapInsertUserError(cause)
	assert.NotErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, cause)
}
