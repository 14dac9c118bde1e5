package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMillis_RoundTripsThroughTime(t *testing.T) {
	for _, ms := range []Millis{0, 1, -1, 1_700_000_000_123, -62_135_596_800_001} {
		assert.Equal(t, ms, MillisOf(ms.Time()), "ms=%d", ms)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.February, Day: 29}, d)
	assert.Equal(t, "2024-02-29", d.String())

	_, err = ParseDate("2023-02-29")
	require.ErrorIs(t, err, ErrInvalidDate)
	_, err = ParseDate("")
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestDate_ScanAndValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2020-01-05"))
	assert.Equal(t, "2020-01-05", d.String())

	require.NoError(t, d.Scan([]byte("2021-12-31")))
	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2021-12-31", v)

	require.Error(t, d.Scan(int64(5)))
}

func TestParseEnums(t *testing.T) {
	g, err := ParseGender("FEMALE")
	require.NoError(t, err)
	assert.Equal(t, GenderFemale, g)
	_, err = ParseGender("female")
	assert.ErrorIs(t, err, ErrUnknownEnum)

	mt, err := ParseMediaType("ECHO")
	require.NoError(t, err)
	assert.Equal(t, MediaEcho, mt)
	_, err = ParseMediaType("AUDIO")
	assert.ErrorIs(t, err, ErrUnknownEnum)

	et, err := ParseEventType("FIRST_STEP")
	require.NoError(t, err)
	assert.Equal(t, EventFirstStep, et)
	_, err = ParseEventType("")
	assert.ErrorIs(t, err, ErrUnknownEnum)

	ms, err := ParseMilestoneType("COGNITIVE")
	require.NoError(t, err)
	assert.Equal(t, MilestoneCognitive, ms)
	_, err = ParseMilestoneType("MOTORIC")
	assert.ErrorIs(t, err, ErrUnknownEnum)
}

func TestGrowthRecord_Validate(t *testing.T) {
	w := 3.4
	assert.ErrorIs(t, GrowthRecord{}.Validate(), ErrNoMeasurement)
	assert.NoError(t, GrowthRecord{Weight: &w}.Validate())

	inf := math.Inf(1)
	assert.ErrorIs(t, GrowthRecord{Weight: &w, Height: &inf}.Validate(), ErrInvalidMeasurement)
}
