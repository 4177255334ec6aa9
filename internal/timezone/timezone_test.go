package timezone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocation(t *testing.T) {
	assert.Equal(t, "Europe/Lisbon", Location("Europe/Lisbon").String())
	assert.Equal(t, Default(), Location("Mars/Olympus").String())
	assert.Equal(t, Default(), Location("").String())
}

func TestSetDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	SetDefault("Not/AZone")
	assert.Equal(t, prev, Default())

	SetDefault("UTC")
	assert.Equal(t, "UTC", Location("").String())
}
