package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryHTTPStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 404, ErrTaskNotFound(1).HTTPStatus())
	assert.Equal(t, 404, ErrSubtaskNotFound(1).HTTPStatus())
	assert.Equal(t, 400, Validation("title must not be empty").HTTPStatus())
	assert.Equal(t, 409, Conflict("duplicate", nil).HTTPStatus())
	assert.Equal(t, 500, (&Error{Code: "SOMETHING_ELSE"}).HTTPStatus())
}

func TestStorageWrapsForeignErrors(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("disk I/O error")
	err := Storage("toggle task", cause)

	assert.ErrorIs(t, err, StorageFailure)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "toggle task failed: disk I/O error", err.Error())
	assert.Nil(t, Storage("noop", nil))
}

func TestStoragePassesCodedErrorsThrough(t *testing.T) {
	t.Parallel()

	nf := fmt.Errorf("loading: %w", ErrTaskNotFound(7))
	err := Storage("toggle task", nf)

	assert.Same(t, nf, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, CodeTaskNotFound, CodeOf(err))
	assert.NotErrorIs(t, err, StorageFailure)
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNotFound(ErrSubtaskNotFound(3)))
	assert.False(t, IsNotFound(Validation("bad")))
	assert.False(t, IsNotFound(stderrors.New("plain")))
	assert.Equal(t, Code(""), CodeOf(stderrors.New("plain")))
}
