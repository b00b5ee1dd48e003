package lookup

import (
	"context"
	"fmt"
	"time"

	"github.com/miekg/dns"
	"go.uber.org/zap"
)

// NSResolver looks up the NS records for a domain. Long-latency by nature;
// implementations must be time-bounded and callers must fail open.
type NSResolver interface {
	Nameservers(ctx context.Context, domain string) ([]string, error)
}

// DNSResolver queries a single upstream resolver over UDP.
type DNSResolver struct {
	client *dns.Client
	addr   string
	logger *zap.Logger
}

// NewDNSResolver builds an NSResolver against addr (host:port). Every query
// is bounded by timeout in addition to the caller's context.
func NewDNSResolver(addr string, timeout time.Duration, logger *zap.Logger) *DNSResolver {
	return &DNSResolver{
		client: &dns.Client{Timeout: timeout},
		addr:   addr,
		logger: logger,
	}
}

// Nameservers returns the NS targets for domain, in response order.
func (r *DNSResolver) Nameservers(ctx context.Context, domain string) ([]string, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(domain), dns.TypeNS)

	start := time.Now()
	resp, _, err := r.client.ExchangeContext(ctx, m, r.addr)
	if err != nil {
		return nil, fmt.Errorf("ns query for %s: %w", domain, err)
	}
	if resp.Rcode == dns.RcodeNameError {
		return nil, nil // domain does not exist; nothing suspicious to report
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("ns query for %s: rcode %s", domain, dns.RcodeToString[resp.Rcode])
	}

	var servers []string
	for _, rr := range resp.Answer {
		if ns, ok := rr.(*dns.NS); ok {
			servers = append(servers, ns.Ns)
		}
	}
	r.logger.Debug("ns query",
		zap.String("domain", domain),
		zap.Int("records", len(servers)),
		zap.Duration("duration", time.Since(start)),
	)
	return servers, nil
}
