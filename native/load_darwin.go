//go:build darwin

package native

// LibraryName 是 macOS 下 MacCAN 提供的 PCBUSB 共享库
const LibraryName = "libPCBUSB.dylib"
