package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCloserDoneUnblocksAfterClose(t *testing.T) {
	c := NewCloser()

	select {
	case <-c.Done():
		t.Fatal("Done should not be closed before Close is called")
	default:
	}

	c.Close()

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("Done should be closed immediately after Close")
	}
}

func TestCloserCloseIsIdempotent(t *testing.T) {
	c := NewCloser()
	require.NotPanics(t, func() {
		c.Close()
		c.Close()
		c.Close()
	})
}
