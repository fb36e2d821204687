package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_FormatSequenceName(t *testing.T) {
	assert.Equal(t, "EXT00001", FormatSequenceName("EXT", 1))
	assert.Equal(t, "EXT00042", FormatSequenceName("EXT", 42))
	assert.Equal(t, "EXT99999", FormatSequenceName("EXT", 99999))
	// Values beyond five digits keep growing naturally.
	assert.Equal(t, "EXT100000", FormatSequenceName("EXT", 100000))
}
