package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/library-portal/internal/model"
)

func Test_FormatEmployeeID(t *testing.T) {
	assert.Equal(t, "LIB001", FormatEmployeeID(1))
	assert.Equal(t, "LIB007", FormatEmployeeID(7))
	assert.Equal(t, "LIB042", FormatEmployeeID(42))
	assert.Equal(t, "LIB1000", FormatEmployeeID(1000))
}

func Test_canActAsReviewer(t *testing.T) {
	assert.True(t, canActAsReviewer(Actor{Role: model.RoleLibrarian}))
	assert.True(t, canActAsReviewer(Actor{Role: model.RoleAdmin}))
	assert.False(t, canActAsReviewer(Actor{Role: model.RoleMember}))
	assert.False(t, canActAsReviewer(Actor{}))
}

func Test_positionFor(t *testing.T) {
	assert.Equal(t, model.PositionHeadLibrarian, positionFor(Actor{Role: model.RoleAdmin}))
	assert.Equal(t, model.PositionLibrarian, positionFor(Actor{Role: model.RoleLibrarian}))
}
