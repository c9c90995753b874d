package discovery

import (
	"context"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/patrickmn/go-cache"
)

const (
	resolvConf     = "/etc/resolv.conf"
	defaultDNSPort = "53"
	ptrTimeout     = 2 * time.Second

	// PTR answers are cached across discovery cycles; negative answers are
	// cached too so unreachable resolvers do not stall every pass.
	cacheTTL     = 10 * time.Minute
	cacheCleanup = 30 * time.Minute
)

// Resolver performs reverse DNS lookups for device hostname enrichment,
// with an in-process cache in front of the PTR queries.
type Resolver struct {
	server string
	client *dns.Client
	cache  *cache.Cache
}

// NewResolver creates a resolver against the given DNS server. An empty
// server falls back to the first nameserver in /etc/resolv.conf.
func NewResolver(server string) *Resolver {
	if server == "" {
		if conf, err := dns.ClientConfigFromFile(resolvConf); err == nil && len(conf.Servers) > 0 {
			server = conf.Servers[0]
		}
	}
	if server != "" && !strings.Contains(server, ":") {
		server += ":" + defaultDNSPort
	}
	return &Resolver{
		server: server,
		client: &dns.Client{Timeout: ptrTimeout},
		cache:  cache.New(cacheTTL, cacheCleanup),
	}
}

// Hostname resolves the PTR record for an IP address. Failures yield an
// empty hostname; enrichment is best effort.
func (r *Resolver) Hostname(ctx context.Context, ip string) string {
	if r.server == "" {
		return ""
	}
	if cached, found := r.cache.Get(ip); found {
		return cached.(string)
	}

	hostname := r.lookup(ctx, ip)
	r.cache.Set(ip, hostname, cache.DefaultExpiration)
	return hostname
}

func (r *Resolver) lookup(ctx context.Context, ip string) string {
	reverse, err := dns.ReverseAddr(ip)
	if err != nil {
		return ""
	}

	msg := new(dns.Msg)
	msg.SetQuestion(reverse, dns.TypePTR)

	reply, _, err := r.client.ExchangeContext(ctx, msg, r.server)
	if err != nil || reply == nil || reply.Rcode != dns.RcodeSuccess {
		return ""
	}
	for _, answer := range reply.Answer {
		if ptr, ok := answer.(*dns.PTR); ok {
			return strings.TrimSuffix(ptr.Ptr, ".")
		}
	}
	return ""
}
