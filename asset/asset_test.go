package asset

import (
	"strings"
	"testing"

	"github.com/rawvie-ngit/mesh-common/pkg/bignum"
	"github.com/stretchr/testify/require"
)

const testPolicy = "7eae28af2208be856f7a119668ae52a49b73725e326dc16579dcc373"

// TestParseQuantity checks that only unsigned decimal strings are accepted.
func TestParseQuantity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "zero", in: "0", want: "0"},
		{name: "small", in: "42", want: "42"},
		{
			name: "beyond uint64",
			in:   "340282366920938463463374607431768211456",
			want: "340282366920938463463374607431768211456",
		},
		{name: "leading zeros", in: "007", want: "7"},
		{name: "empty", in: "", wantErr: true},
		{name: "negative", in: "-1", wantErr: true},
		{name: "plus sign", in: "+1", wantErr: true},
		{name: "decimal point", in: "1.5", wantErr: true},
		{name: "exponent", in: "1e6", wantErr: true},
		{name: "spaces", in: " 1", wantErr: true},
		{name: "hex", in: "0x10", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			q, err := ParseQuantity(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidQuantity)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.want, q.String())
		})
	}
}

// TestUnitSpelling checks the two spellings of the native currency.
func TestUnitSpelling(t *testing.T) {
	t.Parallel()

	require.True(t, IsLovelace(""))
	require.True(t, IsLovelace(Lovelace))
	require.False(t, IsLovelace(testPolicy))
	require.False(t, IsLovelace("Lovelace"))

	require.Equal(t, "", CanonicalUnit(Lovelace))
	require.Equal(t, "", CanonicalUnit(""))
	require.Equal(t, testPolicy, CanonicalUnit(testPolicy))

	require.Equal(t, Lovelace, ExternalUnit(""))
	require.Equal(t, Lovelace, ExternalUnit(Lovelace))
	require.Equal(t, testPolicy, ExternalUnit(testPolicy))

	require.Equal(t, "5 lovelace", Asset{Unit: "", Quantity: "5"}.String())
	require.True(t, NewLovelace(bignum.New(1)).IsLovelace())
}

// TestParseUnit checks the split of a unit into policy id and asset name.
func TestParseUnit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		unit       string
		wantPolicy string
		wantName   string
		wantErr    bool
	}{
		{name: "lovelace", unit: Lovelace},
		{name: "empty", unit: ""},
		{
			name:       "policy only",
			unit:       testPolicy,
			wantPolicy: testPolicy,
		},
		{
			name:       "policy and name",
			unit:       testPolicy + "504154415445",
			wantPolicy: testPolicy,
			wantName:   "504154415445",
		},
		{
			name:       "longest name",
			unit:       testPolicy + strings.Repeat("ab", 32),
			wantPolicy: testPolicy,
			wantName:   strings.Repeat("ab", 32),
		},
		{name: "too short", unit: "abcd", wantErr: true},
		{
			name:    "name too long",
			unit:    testPolicy + strings.Repeat("ab", 33),
			wantErr: true,
		},
		{name: "not hex", unit: testPolicy + "zz", wantErr: true},
		{name: "odd length", unit: testPolicy + "a", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			policy, name, err := ParseUnit(tc.unit)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidUnit)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.wantPolicy, policy)
			require.Equal(t, tc.wantName, name)
		})
	}
}

// TestExtend checks that an asset is decomposed and fingerprinted.
func TestExtend(t *testing.T) {
	t.Parallel()

	a := New(testPolicy+"504154415445", bignum.New(10))

	ext, err := Extend(a)
	require.NoError(t, err)
	require.Equal(t, Extended{
		Unit:        testPolicy + "504154415445",
		PolicyID:    testPolicy,
		AssetName:   "504154415445",
		Fingerprint: "asset13n25uv0yaf5kus35fm2k86cqy60z58d9xmde92",
		Quantity:    "10",
	}, ext)

	amount, err := a.Amount()
	require.NoError(t, err)
	require.Equal(t, "10", amount.String())

	_, err = Extend(NewLovelace(bignum.New(1)))
	require.ErrorIs(t, err, ErrInvalidUnit)

	_, err = Extend(Asset{Unit: testPolicy, Quantity: "-1"})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = Extend(Asset{Unit: "beef", Quantity: "1"})
	require.ErrorIs(t, err, ErrInvalidUnit)
}
