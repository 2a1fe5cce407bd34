package httpapi

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Forwarding headers in order of trust. RemoteAddr is the fallback.
var clientIPHeaders = []string{"Fly-Client-IP", "X-Forwarded-For", "X-Real-IP"}

var countryHeaders = []string{"Fly-Client-Country", "CF-IPCountry", "X-Vercel-IP-Country"}

const unknownCountry = "ZZ"

// requestClient is what access logs record about the caller.
type requestClient struct {
	IP      string
	Country string
}

func clientOf(r *http.Request) requestClient {
	c := requestClient{Country: unknownCountry}
	for _, header := range clientIPHeaders {
		if addr, ok := parseClientAddr(r.Header.Get(header)); ok {
			c.IP = addr.String()
			break
		}
	}
	if c.IP == "" {
		if addr, ok := parseClientAddr(r.RemoteAddr); ok {
			c.IP = addr.String()
		}
	}
	for _, header := range countryHeaders {
		if code, ok := parseCountry(r.Header.Get(header)); ok {
			c.Country = code
			break
		}
	}
	return c
}

// parseClientAddr takes the first hop of a forwarded list and drops any port.
func parseClientAddr(raw string) (netip.Addr, bool) {
	first, _, _ := strings.Cut(raw, ",")
	value := strings.TrimSpace(first)
	if value == "" {
		return netip.Addr{}, false
	}
	if host, _, err := net.SplitHostPort(value); err == nil {
		value = host
	}
	addr, err := netip.ParseAddr(value)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

func parseCountry(raw string) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != 2 || code == unknownCountry {
		return "", false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return "", false
		}
	}
	return code, true
}
