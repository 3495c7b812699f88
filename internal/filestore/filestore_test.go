package filestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("pantry.txt"))
	assert.True(t, ValidName("week 1.txt"))

	assert.False(t, ValidName(""))
	assert.False(t, ValidName(".txt"))
	assert.False(t, ValidName("pantry.csv"))
	assert.False(t, ValidName("pantry.txt123456"))
	assert.False(t, ValidName(".pantry.txt"))
	assert.False(t, ValidName("../pantry.txt"))
	assert.False(t, ValidName(`dir\pantry.txt`))
}
