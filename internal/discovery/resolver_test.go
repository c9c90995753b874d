package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolverNoServerConfigured(t *testing.T) {
	r := &Resolver{}
	assert.Empty(t, r.Hostname(context.Background(), "192.168.1.1"))
}

func TestResolverServerPortDefault(t *testing.T) {
	r := NewResolver("192.168.1.1")
	assert.Equal(t, "192.168.1.1:53", r.server)

	r = NewResolver("192.168.1.1:5353")
	assert.Equal(t, "192.168.1.1:5353", r.server)
}

func TestResolverCachesAnswers(t *testing.T) {
	// An unreachable server fails fast only once per IP; the negative answer
	// is served from cache afterwards.
	r := NewResolver("203.0.113.1")
	r.cache.Set("192.168.1.42", "printer.lan", 0)

	assert.Equal(t, "printer.lan", r.Hostname(context.Background(), "192.168.1.42"))
}

func TestResolverMalformedIP(t *testing.T) {
	r := NewResolver("203.0.113.1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Empty(t, r.lookup(ctx, "not-an-ip"))
}
