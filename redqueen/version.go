package redqueen

import "github.com/kolkov/cmplog/internal/cmplog/cmpmap"

// Version information for the comparison trace engine.
const (
	// Version is the current version of the engine.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info describes the engine and the wire format it speaks.
type Info struct {
	// Version is the engine version string.
	Version string

	// Format names the comparison map layout.
	Format string

	// Layout is the default map geometry.
	Layout Layout
}

// GetInfo returns information about the engine.
//
// Example:
//
//	info := redqueen.GetInfo()
//	fmt.Printf("cmplog %s (%s)\n", info.Version, info.Format)
func GetInfo() Info {
	return Info{
		Version: Version,
		Format:  "AFL++ cmplog",
		Layout:  cmpmap.DefaultLayout(),
	}
}
