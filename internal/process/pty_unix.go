//go:build !windows

package process

import (
	"errors"
	"syscall"
)

func isPTYClosed(err error) bool {
	return errors.Is(err, syscall.EIO)
}
