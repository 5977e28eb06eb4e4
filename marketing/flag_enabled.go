//go:build !marketing_disabled

package marketing

// featureFlag is the build-time switch for the whole integration.
// Builds tagged marketing_disabled compile it out.
const featureFlag = true
