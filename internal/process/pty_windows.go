//go:build windows

package process

func isPTYClosed(err error) bool {
	return false
}
