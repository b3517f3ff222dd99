package types

// Version is the canonical project version.
// The CLI, the frame format (FORMAT.md), and the manifest sidecar share
// this version per the lockstep versioning policy.
const Version = "0.4.0"
