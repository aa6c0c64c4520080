package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusLost.Valid())
	assert.True(t, StatusFound.Valid())
	assert.True(t, StatusReturned.Valid())
	assert.False(t, Status("lost").Valid())
	assert.False(t, Status("").Valid())
}

func TestPatchEmpty(t *testing.T) {
	assert.True(t, Patch{}.Empty())

	content := "Left near the stairs"
	assert.False(t, Patch{Content: &content}.Empty())

	status := StatusFound
	assert.False(t, Patch{Status: &status}.Empty())
}
