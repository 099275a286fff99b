package target

import (
	"context"
	"fmt"
	"net"
	"regexp"
	"strings"

	"github.com/projectdiscovery/mapcidr"
	"github.com/robgonnella/portx/internal/exception"
)

// maximum length of a full domain name
const maxDomainLength = 253

// every label is 1-63 alphanumerics or hyphens and may not start or end
// with a hyphen
var domainLabels = regexp.MustCompile(
	`^[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?(\.[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?)*$`,
)

// IsValidHost returns true if host is an IP literal or a domain name
func IsValidHost(host string) bool {
	host = strings.TrimSpace(host)

	if host == "" {
		return false
	}

	if net.ParseIP(host) != nil {
		return true
	}

	if len(host) > maxDomainLength {
		return false
	}

	return domainLabels.MatchString(host)
}

// Validate returns ErrInvalidHost if host is not a valid target
func Validate(host string) error {
	if !IsValidHost(host) {
		return fmt.Errorf("%w: %q", exception.ErrInvalidHost, host)
	}

	return nil
}

// Resolve returns the address a host resolves to, preferring IPv4.
// IP literals are returned unchanged.
func Resolve(ctx context.Context, host string) (string, error) {
	host = strings.TrimSpace(host)

	if err := Validate(host); err != nil {
		return "", err
	}

	if ip := net.ParseIP(host); ip != nil {
		return ip.String(), nil
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)

	if err != nil {
		return "", err
	}

	if len(addrs) == 0 {
		return "", fmt.Errorf("no addresses found for %s", host)
	}

	for _, addr := range addrs {
		if v4 := addr.IP.To4(); v4 != nil {
			return v4.String(), nil
		}
	}

	return addrs[0].IP.String(), nil
}

// ExpandCIDR returns every address within a CIDR block
func ExpandCIDR(cidr string) ([]string, error) {
	cidr = strings.TrimSpace(cidr)

	if _, _, err := net.ParseCIDR(cidr); err != nil {
		return nil, fmt.Errorf("%w: %s", exception.ErrInvalidCIDR, err.Error())
	}

	ips, err := mapcidr.IPAddresses(cidr)

	if err != nil {
		return nil, fmt.Errorf("%w: %s", exception.ErrInvalidCIDR, err.Error())
	}

	return ips, nil
}
