package config

import (
	"net/netip"
	"strings"
	"time"
)

type SecurityConfig interface {
	GetSessionSecret() string
	GetMaxSessionAge() time.Duration
	GetSessionUpdateAge() time.Duration
	GetLoginMaxAttempts() int
	GetLoginWindow() time.Duration
	GetTrustedProxies() TrustedProxies
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetSessionSecret() string {
	return GetEnv("SESSION_SECRET", "")
}

func (Security) GetMaxSessionAge() time.Duration {
	return GetDuration("SESSION_MAX_AGE", 30*24*time.Hour)
}

// GetSessionUpdateAge is how old a session artifact may get before it is re-issued.
func (Security) GetSessionUpdateAge() time.Duration {
	return GetDuration("SESSION_UPDATE_AGE", 24*time.Hour)
}

func (Security) GetLoginMaxAttempts() int {
	return GetInt("LOGIN_MAX_ATTEMPTS", 5)
}

func (Security) GetLoginWindow() time.Duration {
	return GetDuration("LOGIN_WINDOW", 15*time.Minute)
}

// GetTrustedProxies lists the proxies whose X-Forwarded-For is believed. Empty by default.
func (Security) GetTrustedProxies() TrustedProxies {
	return ParseTrustedProxies(GetEnv("TRUSTED_PROXIES", ""))
}

type TrustedProxies []netip.Prefix

// ParseTrustedProxies reads a comma separated list of IPs or CIDRs. Invalid entries are skipped.
func ParseTrustedProxies(s string) TrustedProxies {
	var out TrustedProxies
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(part); err == nil {
			out = append(out, prefix.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(part); err == nil {
			out = append(out, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
		}
	}
	return out
}

func (t TrustedProxies) Trusts(ip string) bool {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range t {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
