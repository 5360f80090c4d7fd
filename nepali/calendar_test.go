package nepali_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gharbeti/rentroll/nepali"
)

func ad(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestFromGregorian_Anchor(t *testing.T) {
	// The table is anchored at BS 2000-01-01 = AD 1943-04-14
	bs, err := nepali.FromGregorian(ad(1943, time.April, 14))
	require.NoError(t, err)
	assert.Equal(t, nepali.BSDate{Year: 2000, Month: 1, Day: 1}, bs)
}

func TestFromGregorian_BeforeAnchor_OutOfRange(t *testing.T) {
	_, err := nepali.FromGregorian(ad(1943, time.April, 13))
	assert.ErrorIs(t, err, nepali.ErrOutOfRange)
}

func TestFromGregorian_FarFuture_OutOfRange(t *testing.T) {
	_, err := nepali.FromGregorian(ad(2090, time.January, 1))
	assert.ErrorIs(t, err, nepali.ErrOutOfRange)
}

func TestConversion_RoundTrip(t *testing.T) {
	// Every sampled Gregorian day must convert to BS and back unchanged
	samples := []time.Time{
		ad(1943, time.April, 14),
		ad(1960, time.February, 29),
		ad(2000, time.January, 1),
		ad(2015, time.April, 14),
		ad(2023, time.December, 31),
		ad(2024, time.January, 1),
		ad(2026, time.August, 25),
	}
	for _, day := range samples {
		bs, err := nepali.FromGregorian(day)
		require.NoError(t, err, "from %s", day)

		back, err := nepali.ToGregorian(bs)
		require.NoError(t, err, "back from %s", bs)
		assert.True(t, day.Equal(back), "round trip %s -> %s -> %s", day, bs, back)
	}
}

func TestConversion_ConsecutiveDaysAdvanceByOne(t *testing.T) {
	// Walking a decade of Gregorian days, each BS date maps back to the
	// expected offset from the anchor - catches any table misalignment.
	start := ad(2018, time.January, 1)
	prev, err := nepali.FromGregorian(start)
	require.NoError(t, err)

	for i := 1; i <= 3650; i++ {
		day := start.AddDate(0, 0, i)
		bs, err := nepali.FromGregorian(day)
		require.NoError(t, err, "at %s", day)

		back, err := nepali.ToGregorian(bs)
		require.NoError(t, err)
		require.True(t, day.Equal(back), "day %s mapped to %s", day, bs)

		// Dates must be strictly increasing day by day
		require.NotEqual(t, prev, bs)
		prev = bs
	}
}

func TestToGregorian_RejectsInvalidDates(t *testing.T) {
	cases := []nepali.BSDate{
		{Year: 1999, Month: 1, Day: 1},  // before table
		{Year: 2091, Month: 1, Day: 1},  // after table
		{Year: 2080, Month: 0, Day: 1},  // month out of range
		{Year: 2080, Month: 13, Day: 1}, // month out of range
		{Year: 2080, Month: 1, Day: 32}, // Baishakh 2080 has 31 days
		{Year: 2080, Month: 1, Day: 0},
	}
	for _, c := range cases {
		_, err := nepali.ToGregorian(c)
		assert.ErrorIs(t, err, nepali.ErrOutOfRange, "%v", c)
	}
}

func TestBSDate_Formatting(t *testing.T) {
	d := nepali.BSDate{Year: 2080, Month: 9, Day: 16}
	assert.Equal(t, "2080-09-16", d.String())
	assert.Equal(t, "Poush", d.MonthName())
	assert.Equal(t, "१६ पुस २०८०", d.Nepali())
}
