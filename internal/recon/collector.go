package recon

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sort"
	"strings"
	"sync"
	"time"

	mdns "github.com/miekg/dns"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
)

// commonPorts is the fixed probe set. Service names are what the
// planner's fallback catalog keys on.
var commonPorts = []types.PortInfo{
	{Port: 20, Service: "ftp-data"},
	{Port: 21, Service: "ftp"},
	{Port: 22, Service: "ssh"},
	{Port: 25, Service: "smtp"},
	{Port: 53, Service: "dns"},
	{Port: 80, Service: "http"},
	{Port: 139, Service: "netbios-ssn"},
	{Port: 443, Service: "https"},
	{Port: 445, Service: "smb"},
	{Port: 3306, Service: "mysql"},
	{Port: 3389, Service: "rdp"},
	{Port: 5432, Service: "postgresql"},
	{Port: 8080, Service: "http-alt"},
	{Port: 8443, Service: "https-alt"},
}

// Config holds collector settings.
type Config struct {
	// Servers are the DNS servers to query; system default when empty
	Servers []string `mapstructure:"dns_servers"`

	// DialTimeout bounds each TCP connect probe
	DialTimeout time.Duration `mapstructure:"dial_timeout"`

	// QueryTimeout bounds each DNS query
	QueryTimeout time.Duration `mapstructure:"query_timeout"`

	// Concurrency caps simultaneous port probes
	Concurrency int `mapstructure:"concurrency"`
}

// DefaultConfig returns sensible collector defaults.
func DefaultConfig() Config {
	return Config{
		Servers:      []string{"8.8.8.8:53", "1.1.1.1:53"},
		DialTimeout:  2 * time.Second,
		QueryTimeout: 3 * time.Second,
		Concurrency:  8,
	}
}

// Collector implements Service with DNS resolution and a bounded TCP
// connect probe over a fixed common-port set.
type Collector struct {
	config Config
	client *mdns.Client
	dialer *net.Dialer
	logger *slog.Logger
}

// NewCollector creates a recon collector.
func NewCollector(cfg Config, logger *slog.Logger) *Collector {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 2 * time.Second
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 3 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Collector{
		config: cfg,
		client: &mdns.Client{
			Net:          "udp",
			Timeout:      cfg.QueryTimeout,
			DialTimeout:  cfg.QueryTimeout,
			ReadTimeout:  cfg.QueryTimeout,
			WriteTimeout: cfg.QueryTimeout,
		},
		dialer: &net.Dialer{Timeout: cfg.DialTimeout},
		logger: logger,
	}
}

// Gather collects DNS and service information for the target.
func (c *Collector) Gather(ctx context.Context, target string) (*types.ReconContext, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, fmt.Errorf("empty target")
	}

	result := &types.ReconContext{Hostname: target}

	// Resolve unless the target is already an address.
	if net.ParseIP(target) != nil {
		result.Addresses = []string{target}
	} else {
		addrs, err := c.resolve(ctx, target)
		if err != nil {
			c.logger.Debug("dns resolution failed", "target", target, "error", err)
		}
		result.Addresses = addrs
	}

	if len(result.Addresses) == 0 {
		// Nothing to probe; DNS context alone is still useful.
		return result, nil
	}

	result.Ports = c.probePorts(ctx, result.Addresses[0])
	return result, nil
}

// resolve queries A records for the target across configured servers,
// falling back to the system resolver when none answer.
func (c *Collector) resolve(ctx context.Context, domain string) ([]string, error) {
	fqdn := mdns.Fqdn(domain)

	for _, server := range c.config.Servers {
		msg := new(mdns.Msg)
		msg.SetQuestion(fqdn, mdns.TypeA)
		msg.RecursionDesired = true

		resp, _, err := c.client.ExchangeContext(ctx, msg, server)
		if err != nil || resp == nil {
			continue
		}

		var addrs []string
		for _, answer := range resp.Answer {
			if a, ok := answer.(*mdns.A); ok {
				addrs = append(addrs, a.A.String())
			}
		}
		if len(addrs) > 0 {
			return addrs, nil
		}
	}

	// System resolver fallback.
	addrs, err := net.DefaultResolver.LookupHost(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", domain, err)
	}
	return addrs, nil
}

// probePorts runs a bounded concurrent TCP connect probe against the
// common-port set. Closed or filtered ports are simply absent from the
// result.
func (c *Collector) probePorts(ctx context.Context, addr string) []types.PortInfo {
	var (
		mu   sync.Mutex
		open []types.PortInfo
		wg   sync.WaitGroup
	)

	sem := make(chan struct{}, c.config.Concurrency)

	for _, port := range commonPorts {
		port := port
		wg.Add(1)
		go func() {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			conn, err := c.dialer.DialContext(ctx, "tcp",
				net.JoinHostPort(addr, fmt.Sprintf("%d", port.Port)))
			if err != nil {
				return
			}
			conn.Close()

			mu.Lock()
			open = append(open, port)
			mu.Unlock()
		}()
	}

	wg.Wait()

	// Deterministic order for downstream consumers.
	sort.Slice(open, func(i, j int) bool { return open[i].Port < open[j].Port })
	return open
}
