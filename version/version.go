package version

// These variables are set via ldflags during build
var (
	Version   = "1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// ProductName is printed in the CLI banner
const ProductName = "KSoft OptiOBJ"

// GetVersion returns the version string
func GetVersion() string {
	return Version
}

// GetFullVersion returns the version with commit and build date when they are known
func GetFullVersion() string {
	if GitCommit == "unknown" {
		return Version
	}
	if BuildDate == "unknown" {
		return Version + " (" + GitCommit + ")"
	}
	return Version + " (" + GitCommit + ", " + BuildDate + ")"
}

// Banner returns the product name and version
func Banner() string {
	return ProductName + " " + GetVersion()
}
