// Package version holds the release versions of the rollupd daemon and the
// rollupctl CLI. The two binaries are versioned independently.
// All versions follow semantic versioning (semver) conventions.
package version

// RollupdVersion is the sequencer daemon version.
// Format: major.minor.patch[-prerelease][+build]
const RollupdVersion = "0.1.0-dev"

// RollupctlVersion is the operator CLI version.
// Format: major.minor.patch[-prerelease][+build]
const RollupctlVersion = "0.1.0-dev"
