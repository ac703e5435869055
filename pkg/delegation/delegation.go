package delegation

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"
	"net"
	"regexp"
	"strconv"
	"strings"
)

// An allocation record has exactly this many pipe-separated fields:
// registry|cc|type|start|value|date|status
const recordFields = 7

// ErrAllocationSize is returned when a matched record advertises a host
// count that is not a power of two between 1 and 2^32.
var ErrAllocationSize = errors.New("unexpected allocation size")

// ParseError describes a line that matched the allocation filter but
// could not be parsed. Use errors.As to get at the offending line.
type ParseError struct {
	Line int    // 1-based line number in the document
	Text string // the offending line
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("delegation: line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Filter selects the allocation records to extract from a delegation
// file. Both fields are required and matched case-insensitively.
type Filter struct {
	// Registry is the RIR that published the file, e.g. "apnic".
	Registry string

	// Country is the ISO 3166 alpha-2 country code, e.g. "cn".
	Country string
}

// matcher compiles a pattern matching lines that open with the filter's
// registry, country, and the ipv4 record type.
func (f Filter) matcher() (*regexp.Regexp, error) {
	if f.Registry == "" {
		return nil, errors.New("delegation: registry is required")
	}
	if f.Country == "" {
		return nil, errors.New("delegation: country is required")
	}

	expr := fmt.Sprintf(`(?i)^%s\|%s\|ipv4\|`,
		regexp.QuoteMeta(f.Registry), regexp.QuoteMeta(f.Country))
	return regexp.Compile(expr)
}

// Record is a single IPv4 allocation parsed from a delegation file.
type Record struct {
	Registry string
	Country  string
	Start    string // first address of the allocation, dotted decimal
	Hosts    uint64 // number of addresses in the allocation
	Date     string // allocation date as published, YYYYMMDD
	Status   string // "allocated" or "assigned"
}

// Route converts the record into a routable network. The start address
// must be a valid IPv4 address and the host count a power of two no
// larger than 2^32; anything else is an error.
func (r Record) Route() (Route, error) {
	network := net.ParseIP(r.Start)
	if network = network.To4(); network == nil {
		return Route{}, fmt.Errorf("invalid start address %q", r.Start)
	}

	mask, prefix, err := hostMask(r.Hosts)
	if err != nil {
		return Route{}, err
	}

	return Route{Network: network, Mask: mask, PrefixLen: prefix}, nil
}

// Route is a routable IPv4 network derived from an allocation record.
// Mask and PrefixLen describe the same value in two forms and are always
// derived together from the record's host count.
type Route struct {
	Network   net.IP // 4-byte form, renders dotted decimal
	Mask      net.IP // 4-byte form, renders dotted decimal
	PrefixLen int    // 0 through 32
}

// CIDR returns the route in prefix notation, e.g. "1.0.1.0/24".
func (r Route) CIDR() string {
	return fmt.Sprintf("%s/%d", r.Network, r.PrefixLen)
}

// Extract scans the full text of a delegation file and returns the
// routes derived from every allocation record matching f, in document
// order. Adjacent ranges are not merged and duplicates are not removed:
// each matched allocation becomes exactly one route.
//
// A matching line that does not parse as an allocation record stops the
// scan with a *ParseError. Matching lines whose status does not begin
// with "a" are skipped without error.
func Extract(text string, f Filter) ([]Route, error) {
	match, err := f.matcher()
	if err != nil {
		return nil, err
	}

	var routes []Route
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if !match.MatchString(line) {
			continue
		}

		rec, routed, err := parseRecord(line)
		if err != nil {
			return nil, &ParseError{Line: i + 1, Text: line, Err: err}
		}
		if !routed {
			continue
		}

		route, err := rec.Route()
		if err != nil {
			return nil, &ParseError{Line: i + 1, Text: line, Err: err}
		}
		routes = append(routes, route)
	}

	return routes, nil
}

// parseRecord splits a matched line into a Record. routed is false when
// the line is well formed but its status excludes it from routing.
func parseRecord(line string) (rec Record, routed bool, err error) {
	fields := strings.Split(line, "|")
	if len(fields) != recordFields {
		return Record{}, false, fmt.Errorf("expected %d fields, got %d", recordFields, len(fields))
	}

	rec = Record{
		Registry: fields[0],
		Country:  fields[1],
		Start:    fields[3],
		Date:     fields[5],
		Status:   fields[6],
	}

	if !strings.HasPrefix(strings.ToLower(rec.Status), "a") {
		return Record{}, false, nil
	}

	hosts, err := strconv.ParseUint(fields[4], 10, 64)
	if err != nil {
		return Record{}, false, fmt.Errorf("invalid host count %q", fields[4])
	}
	rec.Hosts = hosts

	return rec, true, nil
}

// hostMask computes the dotted mask and prefix length covering an
// allocation of hosts addresses. The 32-bit mask value is
// 0xFFFFFFFF XOR (hosts-1), rendered big-endian.
func hostMask(hosts uint64) (net.IP, int, error) {
	if hosts == 0 || hosts > 1<<32 || hosts&(hosts-1) != 0 {
		return nil, 0, fmt.Errorf("%w: %d", ErrAllocationSize, hosts)
	}

	mask := make(net.IP, net.IPv4len)
	binary.BigEndian.PutUint32(mask, uint32(0xffffffff^(hosts-1)))

	prefix := 32 - bits.TrailingZeros64(hosts)
	return mask, prefix, nil
}
