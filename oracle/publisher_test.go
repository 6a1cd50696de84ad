package oracle

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/autonom-labs/cfd-oracle/oracle/types"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()
	require.NoError(t, w.Close())

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestStdoutPublisherPublishIndexFormat(t *testing.T) {
	pub := StdoutPublisher{}
	mark := types.Mark{
		Symbol: "WTI", Price: 82.5, Expo: -2, TsMs: 1_700_000_000_000,
		Source: "cfd-consensus", WindowSec: 30,
	}

	out := captureStdout(t, func() {
		require.NoError(t, pub.PublishIndex(context.Background(), mark))
	})

	require.Equal(t, "[INDEX] WTI 82.5e-2 @1700000000000 src=cfd-consensus twap=30s\n", out)
}

func TestStdoutPublisherPublishFundingFormat(t *testing.T) {
	pub := StdoutPublisher{}
	update := types.FundingUpdate{
		Symbol: "WTI-PERP", Rate: 0.0012, IntervalSec: 28_800, TsMs: 1_700_000_000_000,
	}

	out := captureStdout(t, func() {
		require.NoError(t, pub.PublishFunding(context.Background(), update))
	})

	require.Equal(t, "[FUNDING] WTI-PERP rate=0.0012 interval=28800s @1700000000000\n", out)
}
