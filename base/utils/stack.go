package utils

import "runtime"

// Stack returns a formatted stack trace of the calling goroutine, skipping
// `skip` frames worth of noise at the top.
func Stack(skip int) []byte {
	buf := make([]byte, 64<<10)
	n := runtime.Stack(buf, false)
	return buf[:n]
}
