// Package delegation parses regional internet registry delegation files
// and derives routable IPv4 networks from country allocations.
//
// A delegation file is pipe-delimited text, one record per line. IPv4
// allocation records look like:
//
//	apnic|CN|ipv4|1.0.1.0|256|20110414|allocated
//
// where the fifth field is the number of addresses in the allocation.
// Registry IPv4 allocations are CIDR aligned, so the count is always a
// power of two.
//
// # Extracting
//
// Use [Extract] with a [Filter] to pull every routed allocation for one
// country out of a file:
//
//	routes, err := delegation.Extract(text, delegation.Filter{
//	    Registry: "apnic",
//	    Country:  "cn",
//	})
//
// Routes come back in document order, one [Route] per allocation.
// Nothing is sorted, de-duplicated, or merged: the output maps 1:1 onto
// the matched input lines.
//
// # Mask Derivation
//
// An allocation of n addresses starting at a network boundary covers the
// prefix start/(32-log2(n)). The dotted mask is the big-endian octet
// form of 0xFFFFFFFF XOR (n-1), so 1024 addresses yield 255.255.252.0
// and a /22 prefix. A host count that is not a power of two fails with
// [ErrAllocationSize].
//
// # Filtering
//
// A line is considered only when it opens with the filter's registry and
// country followed by the ipv4 record type, compared case-insensitively.
// Summary lines never match because their country field is "*". Matching
// lines whose status does not begin with "a" (allocated, assigned) are
// skipped. A matching line that cannot be parsed stops the scan with a
// [ParseError]: an unparseable line means the upstream format changed.
//
// See example_test.go for usage examples.
package delegation
