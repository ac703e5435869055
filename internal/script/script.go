package script

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Clouded-Sabre/chnroutes/pkg/delegation"
)

// ErrUnsupportedPlatform is returned when no generator exists for the
// requested platform name.
var ErrUnsupportedPlatform = errors.New("script: unsupported platform")

// DefaultMetric is the route metric used when none is configured.
const DefaultMetric = 5

// File is one rendered artifact.
type File struct {
	Name string
	Data []byte
	Mode os.FileMode
}

// Result holds the artifacts rendered for one platform, plus a usage
// hint for the user.
type Result struct {
	Platform string
	Files    []File
	Hint     string
}

// Options configures script generation.
type Options struct {
	// Metric is the route metric for platforms that carry one. Zero or
	// negative selects the default.
	// Default: DefaultMetric
	Metric int
}

type generator func(routes []delegation.Route, opts Options) *Result

var generators = map[string]generator{
	"openvpn": generateOpenVPN,
	"linux":   generateLinux,
	"mac":     generateMac,
	"android": generateAndroid,
	"win":     generateWindows,
}

var aliases = map[string]string{
	"macos":   "mac",
	"osx":     "mac",
	"windows": "win",
}

// Platforms returns the supported platform names, sorted.
func Platforms() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve canonicalizes a platform name. Names are matched
// case-insensitively and common aliases (windows, macos, osx) map to
// their canonical form. Unknown names return ErrUnsupportedPlatform.
func Resolve(platform string) (string, error) {
	name := strings.ToLower(platform)
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}

	if _, ok := generators[name]; !ok {
		return "", fmt.Errorf("%w: %q (supported: %s)",
			ErrUnsupportedPlatform, platform, strings.Join(Platforms(), ", "))
	}
	return name, nil
}

// Generate renders the routing artifacts for the named platform, which
// is resolved as by Resolve. Routes are emitted in the order given.
func Generate(platform string, routes []delegation.Route, opts Options) (*Result, error) {
	if opts.Metric <= 0 {
		opts.Metric = DefaultMetric
	}

	name, err := Resolve(platform)
	if err != nil {
		return nil, err
	}

	return generators[name](routes, opts), nil
}

func generateOpenVPN(routes []delegation.Route, opts Options) *Result {
	var b strings.Builder
	for _, r := range routes {
		fmt.Fprintf(&b, "route %s %s net_gateway %d\n", r.Network, r.Mask, opts.Metric)
	}

	return &Result{
		Platform: "openvpn",
		Files: []File{
			{Name: "routes.txt", Data: []byte(b.String()), Mode: 0644},
		},
		Hint: fmt.Sprintf("Append the content of the newly created routes.txt to your openvpn "+
			"config file, and also add 'max-routes %d', which takes a line, to the head of the file.",
			len(routes)+20),
	}
}

func generateLinux(routes []delegation.Route, opts Options) *Result {
	var up, down strings.Builder
	up.WriteString(linuxUpHeader)
	down.WriteString(linuxDownHeader)

	for _, r := range routes {
		fmt.Fprintf(&up, "ip route add %s/%d via $OLDGW\n", r.Network, r.PrefixLen)
		fmt.Fprintf(&down, "ip route del %s/%d\n", r.Network, r.PrefixLen)
	}
	down.WriteString("rm /tmp/vpn_oldgw\n")

	return &Result{
		Platform: "linux",
		Files: []File{
			{Name: "ip-pre-up.sh", Data: []byte(up.String()), Mode: 0755},
			{Name: "ip-down.sh", Data: []byte(down.String()), Mode: 0755},
		},
		Hint: "For pptp only, please copy the file ip-pre-up.sh to the folder /etc/ppp, " +
			"and copy the file ip-down.sh to the folder /etc/ppp/ip-down.d.",
	}
}

func generateMac(routes []delegation.Route, opts Options) *Result {
	var up, down strings.Builder
	up.WriteString(macUpHeader)
	down.WriteString(macDownHeader)

	for _, r := range routes {
		fmt.Fprintf(&up, "route add %s/%d \"${OLDGW}\"\n", r.Network, r.PrefixLen)
		fmt.Fprintf(&down, "route delete %s/%d ${OLDGW}\n", r.Network, r.PrefixLen)
	}
	down.WriteString("\n\nrm /tmp/pptp_oldgw\n")

	return &Result{
		Platform: "mac",
		Files: []File{
			{Name: "ip-up", Data: []byte(up.String()), Mode: 0755},
			{Name: "ip-down", Data: []byte(down.String()), Mode: 0755},
		},
		Hint: "For pptp on mac only, please copy ip-up and ip-down to the /etc/ppp folder, " +
			"don't forget to make them executable with the chmod command.",
	}
}

func generateAndroid(routes []delegation.Route, opts Options) *Result {
	var up, down strings.Builder
	up.WriteString(androidUpHeader)
	down.WriteString(androidDownHeader)

	for _, r := range routes {
		fmt.Fprintf(&up, "route add -net %s netmask %s gw $OLDGW\n", r.Network, r.Mask)
		fmt.Fprintf(&down, "route del -net %s netmask %s\n", r.Network, r.Mask)
	}

	return &Result{
		Platform: "android",
		Files: []File{
			{Name: "vpnup.sh", Data: []byte(up.String()), Mode: 0755},
			{Name: "vpndown.sh", Data: []byte(down.String()), Mode: 0755},
		},
		Hint: "Old school way to call up/down script from openvpn client. " +
			"Use the regular openvpn 2.1 method to add routes if it's possible.",
	}
}

func generateWindows(routes []delegation.Route, opts Options) *Result {
	var up, down strings.Builder
	up.WriteString(windowsUpHeader)
	down.WriteString("@echo off\n")

	for _, r := range routes {
		fmt.Fprintf(&up, "route add %s mask %s %%gw%% metric %d\n", r.Network, r.Mask, opts.Metric)
		fmt.Fprintf(&down, "route delete %s\n", r.Network)
	}

	return &Result{
		Platform: "win",
		Files: []File{
			{Name: "vpnup.bat", Data: []byte(up.String()), Mode: 0755},
			{Name: "vpndown.bat", Data: []byte(down.String()), Mode: 0755},
		},
		Hint: "For pptp on windows only, run vpnup.bat before dialing to vpn, " +
			"and run vpndown.bat after disconnected from the vpn.",
	}
}
