//go:build !linux

package pulsar

// accessDenied always reports false off Linux; hidapi surfaces permission
// problems through the open error itself on other platforms.
func accessDenied(string) bool {
	return false
}
