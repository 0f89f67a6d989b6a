package grpc

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestMultiLimiter_Allow(t *testing.T) {
	ml := newMultiLimiter(rate.Limit(2), 2, time.Minute)

	assert.True(t, ml.allow("a"))
	assert.True(t, ml.allow("a"))
	assert.False(t, ml.allow("a"))
	assert.True(t, ml.allow("b"), "keys have separate buckets")
}

func TestMultiLimiter_ForgetsIdleKeys(t *testing.T) {
	ml := newMultiLimiter(rate.Limit(1), 1, time.Nanosecond)
	ml.allow("a")
	time.Sleep(time.Millisecond)
	ml.allow("b")

	ml.mu.Lock()
	defer ml.mu.Unlock()
	assert.NotContains(t, ml.entries, "a")
}

func TestPeerHost(t *testing.T) {
	assert.Equal(t, "10.0.0.1", peerHost(&net.TCPAddr{IP: net.ParseIP("10.0.0.1"), Port: 5000}))
	assert.Equal(t, "", peerHost(nil))
	assert.Equal(t, "bufconn", peerHost(fakeAddr("bufconn")))
}

type fakeAddr string

func (a fakeAddr) Network() string { return "fake" }
func (a fakeAddr) String() string  { return string(a) }
