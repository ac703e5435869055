// Package config defines configuration structures for the chnroutes CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (CHNROUTES_ prefix)
//   - YAML configuration file
//
// Values resolve in that order: flags override environment variables,
// which override the file, which overrides the built-in defaults.
//
// # Example File
//
//	url: http://ftp.apnic.net/apnic/stats/apnic/delegated-apnic-latest
//	registry: apnic
//	country: cn
//	platform: openvpn
//	metric: 5
//	output: ./out
//	bucket: s3://my-bucket?region=us-east-1
//	prefix: scripts
//	chunk_size: 8KB
//	timeout: 10m
//	progress: true
package config
