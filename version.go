package objcodec

// Version is the current version of the package. The codec text formats
// have not changed since v0.1.0.
const Version = "v0.2.0"

// VersionString returns the full version string
func VersionString() string {
	return "objcodec " + Version
}
