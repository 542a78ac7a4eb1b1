//go:build linux

package native

// LibraryName 是 Linux 下 PEAK 提供的 PCAN-Basic 共享库
const LibraryName = "libpcanbasic.so"
