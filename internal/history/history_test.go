package history

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tyrowin/roomchat/internal/protocol"
)

func message(i int) protocol.ChatMessage {
	return protocol.ChatMessage{
		ID:   "m" + strconv.Itoa(i),
		Kind: protocol.KindText,
		Body: strconv.Itoa(i),
	}
}

func ids(msgs []protocol.ChatMessage) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.ID
	}
	return out
}

func appendN(l *Log, from, to int) []string {
	var want []string
	for i := from; i < to; i++ {
		l.Append(message(i))
		want = append(want, "m"+strconv.Itoa(i))
	}
	return want
}

// TestNewFallsBackToDefaultCapacity verifies that invalid capacities use the default.
func TestNewFallsBackToDefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, New(0).Cap())
	assert.Equal(t, DefaultCapacity, New(-3).Cap())
	assert.Equal(t, 7, New(7).Cap())
}

// TestReplayEmpty verifies a fresh log replays nothing.
func TestReplayEmpty(t *testing.T) {
	l := New(DefaultCapacity)
	assert.Empty(t, l.Replay())
	assert.Equal(t, 0, l.Len())
}

// TestReplayBeforeWrap verifies that up to capacity appends replay in append order.
func TestReplayBeforeWrap(t *testing.T) {
	for _, n := range []int{1, 2, 250, 499, 500} {
		t.Run(strconv.Itoa(n), func(t *testing.T) {
			l := New(DefaultCapacity)
			want := appendN(l, 0, n)
			assert.Equal(t, want, ids(l.Replay()))
			assert.Equal(t, n, l.Len())
		})
	}
}

// TestReplayAfterWrap verifies that only the most recent capacity messages survive.
func TestReplayAfterWrap(t *testing.T) {
	for _, n := range []int{501, 750, 1000, 1337} {
		t.Run(strconv.Itoa(n), func(t *testing.T) {
			l := New(DefaultCapacity)
			all := appendN(l, 0, n)

			got := ids(l.Replay())
			require.Len(t, got, DefaultCapacity)
			assert.Equal(t, all[n-DefaultCapacity:], got)
			assert.NotContains(t, got, "m0")
		})
	}
}

// TestClear verifies clear empties the log and the next append replays alone.
func TestClear(t *testing.T) {
	l := New(4)
	appendN(l, 0, 6)

	l.Clear()
	assert.Empty(t, l.Replay())
	assert.Empty(t, l.Replay())
	assert.Equal(t, 0, l.Len())

	l.Append(message(42))
	assert.Equal(t, []string{"m42"}, ids(l.Replay()))
}

// TestReplayReturnsCopy verifies callers cannot mutate retained messages.
func TestReplayReturnsCopy(t *testing.T) {
	l := New(3)
	l.Append(message(1))

	out := l.Replay()
	out[0].Body = "changed"

	assert.Equal(t, "1", l.Replay()[0].Body)
}

// TestConcurrentAppend verifies concurrent writers never exceed capacity.
func TestConcurrentAppend(t *testing.T) {
	l := New(50)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				l.Append(message(w*1000 + i))
				_ = l.Replay()
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 50, l.Len())
	assert.Len(t, l.Replay(), 50)
}
