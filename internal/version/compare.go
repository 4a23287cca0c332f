package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckVenueCompatibility checks if the client and venue API versions are
// compatible. Returns nil if compatible, error with details if not.
//
// Compatibility Rules:
//   - If either version is "main" (development build), compatibility check is skipped
//   - Major versions must match exactly
//   - Minor versions must match exactly
//   - Patch versions can differ (e.g., 0.4.0 is compatible with 0.4.5)
//
// Examples:
//   - Client 0.4.0, Venue 0.4.0 -> OK (exact match)
//   - Client 0.4.1, Venue 0.4.0 -> OK (patch differs)
//   - Client 0.5.0, Venue 0.4.0 -> ERROR (minor differs)
//   - Client 1.0.0, Venue 0.4.0 -> ERROR (major differs)
//   - Client main, Venue 0.4.0 -> OK (dev build, skip check)
func CheckVenueCompatibility(clientVersion, venueVersion string) error {
	// Strip 'v' prefix if present for consistency
	clientVersion = strings.TrimPrefix(clientVersion, "v")
	venueVersion = strings.TrimPrefix(venueVersion, "v")

	// Skip version check for "main" (development builds)
	if clientVersion == "main" || venueVersion == "main" {
		return nil
	}

	clientSemver, err := semver.NewVersion(clientVersion)
	if err != nil {
		return fmt.Errorf("invalid client version '%s': %w", clientVersion, err)
	}

	venueSemver, err := semver.NewVersion(venueVersion)
	if err != nil {
		return fmt.Errorf("invalid venue version '%s': %w", venueVersion, err)
	}

	if clientSemver.Major() != venueSemver.Major() {
		return fmt.Errorf("major version mismatch: client is %d.x.x but venue serves %d.x.x",
			clientSemver.Major(), venueSemver.Major())
	}

	if clientSemver.Minor() != venueSemver.Minor() {
		return fmt.Errorf("minor version mismatch: client is %d.%d.x but venue serves %d.%d.x",
			clientSemver.Major(), clientSemver.Minor(),
			venueSemver.Major(), venueSemver.Minor())
	}

	// Patch versions can differ, so we're compatible
	return nil
}
