package console

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(c *Capture) []string {
	var got []string
	c.ForEach(func(b []byte) bool {
		got = append(got, string(b))
		return true
	})
	return got
}

func TestNew_Empty(t *testing.T) {
	c := New(0, nil)
	defer c.Close()

	assert.Empty(t, collect(c))
	assert.Empty(t, c.Bytes())
}

func TestAppendAndForEach_OrderAndEarlyStop(t *testing.T) {
	c := New(0, nil)
	defer c.Close()
	c.Append([]byte("a"))
	c.Append([]byte("b"))
	c.Append([]byte("c"))

	assert.Equal(t, []string{"a", "b", "c"}, collect(c))

	var got []string
	c.ForEach(func(b []byte) bool {
		got = append(got, string(b))
		return len(got) < 2
	})
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestAppend_IgnoresEmptyChunks(t *testing.T) {
	c := New(0, nil)
	defer c.Close()
	c.Append(nil)
	c.Append([]byte{})
	assert.Empty(t, collect(c))
}

func TestAppend_TrimsOldestChunksPastLimit(t *testing.T) {
	c := New(6, nil)
	defer c.Close()

	c.Append([]byte("abc"))
	c.Append([]byte("def"))
	assert.Equal(t, "abcdef", c.String())

	c.Append([]byte("gh"))
	assert.Equal(t, "defgh", c.String())

	// A single chunk larger than the limit is kept on its own.
	c.Append([]byte("0123456789"))
	assert.Equal(t, "0123456789", c.String())
}

func TestWrite_CopiesInput(t *testing.T) {
	c := New(0, nil)
	defer c.Close()

	data := []byte("abc")
	n, err := c.Write(data)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	data[0] = 'z'
	assert.Equal(t, "abc", c.String())
}

func TestNilReceiverSafety(t *testing.T) {
	var c *Capture

	c.ForEach(nil)
	c.ForEach(func(b []byte) bool {
		t.Fatalf("ForEach should not invoke iter for nil receiver")
		return true
	})
	c.Append([]byte("x"))
	c.Close()

	n, err := c.Write([]byte("xyz"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Empty(t, c.Bytes())
}

func TestSubscribe_DeliversExistingItemsInOrder(t *testing.T) {
	c := New(0, nil)
	defer c.Close()
	c.Append([]byte("a"))
	c.Append([]byte("b"))
	c.Append([]byte("c"))

	ch := c.Subscribe(context.Background(), 3)

	for _, want := range []string{"a", "b", "c"} {
		v, ok := recvWithTimeout(t, ch, 200*time.Millisecond)
		require.True(t, ok)
		assert.Equal(t, want, string(v))
	}

	// Nothing more arrives without new appends.
	_, ok := recvWithTimeout(t, ch, 50*time.Millisecond)
	assert.False(t, ok)
}

func TestSubscribe_FollowsNewChunks(t *testing.T) {
	c := New(0, nil)
	defer c.Close()

	ch := c.Subscribe(context.Background(), 1)
	c.Append([]byte("late"))

	v, ok := recvWithTimeout(t, ch, 200*time.Millisecond)
	require.True(t, ok)
	assert.Equal(t, "late", string(v))
}

func TestSubscribe_ChannelClosesAfterDrainOnClose(t *testing.T) {
	c := New(0, nil)
	c.Append([]byte("x"))

	ch := c.Subscribe(context.Background(), 1)
	c.Append([]byte("y"))
	c.Close()

	var got []byte
	done := make(chan struct{})
	go func() {
		for b := range ch {
			got = append(got, b...)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(300 * time.Millisecond):
		t.Fatalf("subscription channel did not close after Close")
	}
	assert.Equal(t, "xy", string(got))
}

func TestSubscribe_AfterCloseReplaysAndCloses(t *testing.T) {
	c := New(0, nil)
	c.Append([]byte("done"))
	c.Close()

	ch := c.Subscribe(context.Background(), 4)
	v, ok := recvWithTimeout(t, ch, 200*time.Millisecond)
	require.True(t, ok)
	assert.Equal(t, "done", string(v))

	_, ok = recvWithTimeout(t, ch, 200*time.Millisecond)
	assert.False(t, ok)
}

func TestSubscribe_ContextCancelStopsStream(t *testing.T) {
	c := New(0, nil)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := c.Subscribe(ctx, 0)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(300 * time.Millisecond):
		t.Fatalf("subscription channel did not close after cancel")
	}
}
