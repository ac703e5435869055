// Package script renders platform routing scripts from delegation
// routes.
//
// Each platform produces a fixed artifact set: openvpn gets a single
// routes.txt route list, every other platform gets an up/down script
// pair that installs routes through the pre-VPN default gateway and
// removes them again afterwards. Artifacts are rendered fully in
// memory; writing them out is the caller's concern.
//
// # Usage
//
//	result, err := script.Generate("linux", routes, script.Options{
//	    Metric: 5,
//	})
//
//	for _, f := range result.Files {
//	    // f.Name, f.Data, f.Mode
//	}
//	fmt.Println(result.Hint)
//
// Supported platforms: android, linux, mac, openvpn, win.
package script
