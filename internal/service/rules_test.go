package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/library-portal/internal/service"
)

func Test_DefaultRules(t *testing.T) {
	rules := service.DefaultRules()
	assert.Equal(t, 14, rules.ExtensionDays)
	assert.Equal(t, 2, rules.MaxExtensions)
	assert.Equal(t, 3, rules.MinDaysBeforeExpiry)
	assert.Equal(t, 14, rules.MaxExtensionDays)
}
