package ports

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/robgonnella/portx/internal/exception"
)

// MinPort lowest valid TCP port
const MinPort = 1

// MaxPort highest valid TCP port
const MaxPort = 65535

// common quick-select ports
var common = []int{
	21, 22, 23, 25, 53, 80, 110, 111, 135, 139, 143, 443, 993, 995,
	1723, 3306, 3389, 5432, 5900, 8080, 8443, 8888, 9090,
}

// well-known port table used only for display and reports
var services = map[int]string{
	21:   "FTP",
	22:   "SSH",
	23:   "Telnet",
	25:   "SMTP",
	53:   "DNS",
	80:   "HTTP",
	110:  "POP3",
	111:  "RPC",
	135:  "RPC Endpoint",
	139:  "NetBIOS",
	143:  "IMAP",
	443:  "HTTPS",
	993:  "IMAPS",
	995:  "POP3S",
	1723: "PPTP",
	3306: "MySQL",
	3389: "RDP",
	5432: "PostgreSQL",
	5900: "VNC",
	8080: "HTTP Proxy",
	8443: "HTTPS Alt",
	8888: "HTTP Alt",
	9090: "HTTP Alt",
}

// Parse expands a port specification into a sorted list of unique ports.
//
// Supported forms:
//   - single: "22"
//   - list: "22,80,443"
//   - range: "1-1024"
//   - mixed: "20-80,443,8080"
func Parse(spec string) ([]int, error) {
	spec = strings.TrimSpace(spec)

	if spec == "" {
		return nil, fmt.Errorf("%w: empty port specification", exception.ErrInvalidPortSpec)
	}

	seen := map[int]struct{}{}

	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)

		if token == "" {
			return nil, fmt.Errorf("%w: empty token", exception.ErrInvalidPortSpec)
		}

		if !strings.Contains(token, "-") {
			port, err := parsePort(token)

			if err != nil {
				return nil, err
			}

			seen[port] = struct{}{}
			continue
		}

		bounds := strings.SplitN(token, "-", 2)

		start, err := parsePort(bounds[0])

		if err != nil {
			return nil, err
		}

		end, err := parsePort(bounds[1])

		if err != nil {
			return nil, err
		}

		if start > end {
			return nil, fmt.Errorf("%w: reversed range %s", exception.ErrInvalidPortSpec, token)
		}

		for p := start; p <= end; p++ {
			seen[p] = struct{}{}
		}
	}

	result := make([]int, 0, len(seen))

	for p := range seen {
		result = append(result, p)
	}

	sort.Ints(result)

	return result, nil
}

// Common returns the list of commonly used ports
func Common() []int {
	result := make([]int, len(common))
	copy(result, common)
	return result
}

// All returns the specification covering every valid port
func All() string {
	return fmt.Sprintf("%d-%d", MinPort, MaxPort)
}

// Join renders ports as a comma separated specification
func Join(ports []int) string {
	parts := make([]string, 0, len(ports))

	for _, p := range ports {
		parts = append(parts, strconv.Itoa(p))
	}

	return strings.Join(parts, ",")
}

// Compact renders ports as a spec that Parse accepts, folding runs of
// consecutive ports into ranges
func Compact(ports []int) string {
	sorted := make([]int, len(ports))
	copy(sorted, ports)
	sort.Ints(sorted)

	parts := []string{}

	for i := 0; i < len(sorted); {
		start := sorted[i]
		end := start

		for i++; i < len(sorted) && sorted[i] <= end+1; i++ {
			end = sorted[i]
		}

		if start == end {
			parts = append(parts, strconv.Itoa(start))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", start, end))
		}
	}

	return strings.Join(parts, ",")
}

// Describe returns the well-known service name for a port
func Describe(port int) string {
	if name, ok := services[port]; ok {
		return name
	}

	return fmt.Sprintf("Port %d", port)
}

// IsValid reports whether port is within the valid TCP range
func IsValid(port int) bool {
	return port >= MinPort && port <= MaxPort
}

func parsePort(s string) (int, error) {
	s = strings.TrimSpace(s)

	port, err := strconv.Atoi(s)

	if err != nil {
		return 0, fmt.Errorf("%w: invalid port number %q", exception.ErrInvalidPortSpec, s)
	}

	if !IsValid(port) {
		return 0, fmt.Errorf("%w: port %d out of range %d-%d", exception.ErrInvalidPortSpec, port, MinPort, MaxPort)
	}

	return port, nil
}
