package shared

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCents(t *testing.T) {
	cases := []struct {
		in   string
		want Cents
	}{
		{"12.34", 1234},
		{"12,34", 1234},
		{"150", 15000},
		{"0.5", 50},
		{"12.345", 1235},
		{"12.344", 1234},
		{"-3.10", -310},
		{" 7.00 ", 700},
	}
	for _, tc := range cases {
		got, err := ParseCents(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseCentsRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3", "12a", "--5"} {
		_, err := ParseCents(in)
		require.Error(t, err, in)
	}
}

func TestParseCentsRejectsSignOrSeparatorAlone(t *testing.T) {
	for _, in := range []string{"-", "+", ".", ",", "-.", "+,"} {
		_, err := ParseCents(in)
		require.ErrorIs(t, err, ErrInvalidAmount, in)
	}
}

func TestCentsString(t *testing.T) {
	require.Equal(t, "12.34", Cents(1234).String())
	require.Equal(t, "-0.05", Cents(-5).String())
	require.Equal(t, "0.00", Cents(0).String())
	require.Equal(t, "150.00", Cents(15000).String())
}

func TestCentsJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Cents(1234))
	require.NoError(t, err)
	require.Equal(t, "12.34", string(data))

	var c Cents
	require.NoError(t, json.Unmarshal([]byte(`"99,90"`), &c))
	require.Equal(t, Cents(9990), c)
	require.NoError(t, json.Unmarshal([]byte(`15.5`), &c))
	require.Equal(t, Cents(1550), c)
}
