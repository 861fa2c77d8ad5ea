package gatt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCentralTracker(t *testing.T) {
	var tr centralTracker

	_, ok := tr.Central()
	assert.False(t, ok)

	tr.connected("11:22:33:44:55:66")
	remote, ok := tr.Central()
	assert.True(t, ok)
	assert.Equal(t, "11:22:33:44:55:66", remote)

	// A late disconnection of an older central is ignored.
	tr.connected("aa:bb:cc:dd:ee:ff")
	tr.disconnected("11:22:33:44:55:66")
	remote, ok = tr.Central()
	assert.True(t, ok)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", remote)

	tr.disconnected("aa:bb:cc:dd:ee:ff")
	_, ok = tr.Central()
	assert.False(t, ok)
}
