// ABOUTME: Build version and product identification
// ABOUTME: Reported in protocol hellos and by the -version flags
package version

// Version is overridden at build time with -ldflags "-X .../internal/version.Version=..."
var Version = "0.1.0"

const (
	Product      = "xyscope"
	Manufacturer = "xyscope"
)

// String returns "product version"
func String() string {
	return Product + " " + Version
}
