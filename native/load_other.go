//go:build !windows && !linux && !darwin

package native

import (
	"fmt"
	"runtime"
)

const LibraryName = ""

// Open 在不支持的平台上总是失败
func Open(path string) (Library, error) {
	return nil, fmt.Errorf("PCAN-Basic 不支持 %s/%s", runtime.GOOS, runtime.GOARCH)
}
