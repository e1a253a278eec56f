package articles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDate(t *testing.T) {
	v, err := EncodeDate("2025-01-15")
	require.NoError(t, err)
	assert.Equal(t, int64(20250115), v)

	v, err = EncodeDate("1999-12-31")
	require.NoError(t, err)
	assert.Equal(t, int64(19991231), v)
}

func TestEncodeDate_Invalid(t *testing.T) {
	_, err := EncodeDate("01-01-2025")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
	assert.Equal(t, "Date must be in YYYY-MM-DD format.", err.Error())
}

func TestDecodeDate_RoundTrip(t *testing.T) {
	for _, s := range []string{"2025-01-15", "2000-02-29", "1970-01-01", "2024-12-31"} {
		v, err := EncodeDate(s)
		require.NoError(t, err)

		back, err := DecodeDate(v)
		require.NoError(t, err)
		assert.Equal(t, s, back)
	}
}

func TestDecodeDate_Invalid(t *testing.T) {
	for _, v := range []int64{0, -20250101, 20251301, 20250230, 2025011} {
		_, err := DecodeDate(v)
		assert.Error(t, err, "value %d", v)
	}
}
