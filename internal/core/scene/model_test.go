package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatTime(0))
	assert.Equal(t, "00:01:05", FormatTime(65.9))
	assert.Equal(t, "01:01:01", FormatTime(3661))
	assert.Equal(t, "02:46:40", FormatTime(10000))
}

func TestFingerprintDistance(t *testing.T) {
	a := Fingerprint{Hash: 0b1111}
	b := Fingerprint{Hash: 0b1001}

	assert.Equal(t, 2, a.Distance(b))
	assert.Equal(t, 2, b.Distance(a))
	assert.Equal(t, 0, a.Distance(a))
}

func TestIntervalDuration(t *testing.T) {
	iv := Interval{Start: 12.5, End: 30}
	assert.InDelta(t, 17.5, iv.Duration(), 1e-9)
}
