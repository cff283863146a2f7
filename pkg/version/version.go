package version

import (
	"fmt"
	"runtime/debug"
)

const (
	Major = 0
	Minor = 1
	Patch = 0
)

// Override is set at link time with -ldflags "-X ...version.Override=v1.2.3".
var Override string

// String gives you the string representation of the version
func String() string {
	if Override != "" {
		return Override
	}

	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)
}
