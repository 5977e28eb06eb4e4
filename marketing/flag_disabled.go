//go:build marketing_disabled

package marketing

const featureFlag = false
