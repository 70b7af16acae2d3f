package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rawvie-ngit/mesh-common/asset"
	"github.com/rawvie-ngit/mesh-common/pkg/bignum"
	"github.com/rawvie-ngit/mesh-common/selection"
	"github.com/rawvie-ngit/mesh-common/utxo"
	"github.com/stretchr/testify/require"
)

// writeCandidates writes a UTxO list file holding one candidate per lovelace
// amount and returns its path.
func writeCandidates(t *testing.T, lovelace ...int64) string {
	t.Helper()

	candidates := make([]utxo.UTxO, 0, len(lovelace))
	for i, l := range lovelace {
		candidates = append(candidates, utxo.UTxO{
			Input: utxo.Input{
				TxHash:      fmt.Sprintf("%064x", i),
				OutputIndex: uint32(i),
			},
			Output: utxo.Output{
				Address: "addr_test1",
				Amount: []asset.Asset{
					asset.NewLovelace(bignum.New(l)),
				},
			},
		})
	}

	raw, err := json.Marshal(candidates)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "utxos.json")
	require.NoError(t, os.WriteFile(path, raw, 0600))

	return path
}

// TestRunSelect runs the select command end to end, including the rotated
// log file.
func TestRunSelect(t *testing.T) {
	path := writeCandidates(t, 3_000_000, 10_000_000, 1_000_000)
	logDir := t.TempDir()

	var out bytes.Buffer
	err := run([]string{
		"--logdir=" + logDir, "--debuglevel=debug", "--threshold=0",
		"select", "--utxos=" + path, "--require=lovelace:4000000",
	}, &out)
	require.NoError(t, err)

	var report selectionReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.Equal(t, selection.StrategyLargestFirst, report.Strategy)
	require.Len(t, report.Inputs, 1)
	require.EqualValues(t, 1, report.Inputs[0].Input.OutputIndex)
	require.Equal(t, []asset.Asset{{
		Unit: asset.Lovelace, Quantity: "10000000",
	}}, report.Total)
	require.Equal(t, "0.174741 ADA", report.EstimatedFee)
	require.Empty(t, report.Error)

	_, err = os.Stat(filepath.Join(logDir, defaultLogFilename))
	require.NoError(t, err)
}

// TestRunSelectFailures checks that bad input and unmet requirements are
// returned as errors.
func TestRunSelectFailures(t *testing.T) {
	path := writeCandidates(t, 1_000_000)
	token := testPolicy + "41"

	testCases := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{
			name: "insufficient",
			args: []string{
				"select", "--utxos=" + path,
				"--require=lovelace:4000000",
			},
			wantErr: selection.ErrInsufficientFunds,
		},
		{
			name: "tokens on largest first",
			args: []string{
				"select", "--utxos=" + path,
				"--require=" + token + ":1",
			},
			wantErr: selection.ErrUnsupportedRequirement,
		},
		{
			name: "unknown strategy",
			args: []string{
				"select", "--utxos=" + path, "--strategy=random",
			},
			wantErr: selection.ErrUnknownStrategy,
		},
		{
			name: "malformed file",
			args: []string{
				"select", "--utxos=" + writeRaw(t, `[{"input":{}}]`),
			},
			wantErr: utxo.ErrMalformedUTxO,
		},
		{
			name: "missing file",
			args: []string{
				"select", "--utxos=" + filepath.Join(
					t.TempDir(), "none.json",
				),
			},
			wantErr: os.ErrNotExist,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			args := append([]string{"--nofilelogging"}, tc.args...)
			err := run(args, &out)
			require.ErrorIs(t, err, tc.wantErr)
			require.Empty(t, out.String())
		})
	}
}

// writeRaw writes raw to a temporary file and returns its path.
func writeRaw(t *testing.T, raw string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "raw.json")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0600))

	return path
}

// TestRunCompare checks that compare reports every strategy, failures
// included.
func TestRunCompare(t *testing.T) {
	path := writeCandidates(t, 2_000_000, 4_000_000, 10_000_000)

	var out bytes.Buffer
	err := run([]string{
		"--nofilelogging", "--notxfees", "--threshold=0",
		"compare", "--utxos=" + path, "--require=lovelace:5000000",
	}, &out)
	require.NoError(t, err)

	var reports []selectionReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &reports))
	require.Len(t, reports, len(selection.Strategies()))
	for i, strategy := range selection.Strategies() {
		require.Equal(t, strategy.Name(), reports[i].Strategy)
		require.Empty(t, reports[i].Error)
		require.NotEmpty(t, reports[i].Inputs)
		require.Empty(t, reports[i].EstimatedFee)
	}

	out.Reset()
	err = run([]string{
		"--nofilelogging", "compare", "--utxos=" + path,
		"--require=" + testPolicy + "41:1",
	}, &out)
	require.NoError(t, err)

	var failed []selectionReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &failed))
	require.Len(t, failed, len(selection.Strategies()))
	for _, r := range failed {
		require.NotEmpty(t, r.Error)
		require.Empty(t, r.Inputs)
	}
}

// TestRunFingerprint checks both fingerprint outputs.
func TestRunFingerprint(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{
		"--nofilelogging", "fingerprint", testPolicy, "504154415445",
	}, &out)
	require.NoError(t, err)
	require.Equal(t, "asset13n25uv0yaf5kus35fm2k86cqy60z58d9xmde92\n",
		out.String())

	out.Reset()
	err = run([]string{
		"--nofilelogging", "fingerprint", "--extended", testPolicy,
		"504154415445",
	}, &out)
	require.NoError(t, err)

	var extended asset.Extended
	require.NoError(t, json.Unmarshal(out.Bytes(), &extended))
	require.Equal(t, testPolicy, extended.PolicyID)
	require.Equal(t, "504154415445", extended.AssetName)
	require.Equal(t, "asset13n25uv0yaf5kus35fm2k86cqy60z58d9xmde92",
		extended.Fingerprint)

	out.Reset()
	err = run([]string{
		"--nofilelogging", "fingerprint", "--extended", "abcd", "",
	}, &out)
	require.ErrorIs(t, err, asset.ErrInvalidUnit)
}
