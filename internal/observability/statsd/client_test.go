package statsd

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix, name, want string
	}{
		{"panai_console", "api.request", "panai_console.api.request"},
		{"", " api/request ", "api_request"},
		{"p", "foo..bar.", "p.foo.bar"},
		{"p", "  ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, metricName(tt.prefix, tt.name), tt.name)
	}
}

func TestRenderTags(t *testing.T) {
	t.Parallel()

	global := trimTags(map[string]string{"env": "prod", " service ": " console "})
	local := map[string]string{"status_class": " 2xx ", "": "ignored", "env": "stage"}

	assert.Equal(t, "|#env:stage,service:console,status_class:2xx", renderTags(global, local))
	assert.Empty(t, renderTags(nil, nil))
}

func TestClientLine(t *testing.T) {
	t.Parallel()

	c, err := NewClient(Config{Prefix: ".panai_console.", GlobalTags: map[string]string{"env": "test"}})
	require.NoError(t, err)
	assert.False(t, c.Enabled())

	line, ok := c.line("api.request", "1", "c", map[string]string{"endpoint": "login"})
	require.True(t, ok)
	assert.Equal(t, "panai_console.api.request:1|c|#endpoint:login,env:test", line)

	_, ok = c.line("", "1", "c", nil)
	assert.False(t, ok)
}

func TestClientWritesOverUDP(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	c, err := NewClient(Config{Enabled: true, Address: pc.LocalAddr().String(), Prefix: "panai"})
	require.NoError(t, err)
	require.True(t, c.Enabled())
	defer c.Close()

	c.Timing("api.latency", 1500*time.Microsecond, map[string]string{"endpoint": "members"})

	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 512)
	n, _, err := pc.ReadFrom(buf)
	require.NoError(t, err)
	assert.Equal(t, "panai.api.latency:1.5|ms|#endpoint:members", string(buf[:n]))

	require.NoError(t, c.Close())
	assert.False(t, c.Enabled())
	c.Count("api.request", 1, nil) // dropped after close
}

func TestNilClientIsSafe(t *testing.T) {
	t.Parallel()

	var c *Client
	c.Count("x", 1, nil)
	c.Gauge("x", 1, nil)
	c.Timing("x", time.Second, nil)
	assert.False(t, c.Enabled())
	assert.NoError(t, c.Close())
}
