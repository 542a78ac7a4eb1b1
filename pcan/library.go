// Package pcan is a typed binding over the PEAK-System PCAN-Basic library.
//
// Buses are channels that have not been initialized; sockets are initialized
// channels. Each bus and socket kind carries only the parameter accessors the
// hardware supports.
package pcan

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/LoveWonYoung/pcanbasic/native"
)

var (
	libMu   sync.RWMutex
	libOnce sync.Once
	lib     native.Library
)

// UseLibrary replaces the native library used by every bus and socket.
// It must be called before any channel is opened.
func UseLibrary(l native.Library) {
	libOnce.Do(func() {})
	libMu.Lock()
	defer libMu.Unlock()
	lib = l
}

// Library returns the native library, loading the platform default on first use.
func Library() native.Library {
	libOnce.Do(func() {
		l, err := native.Load()
		if err != nil {
			log.Warn().Err(err).Msg("PCAN-Basic library not available")
		}
		libMu.Lock()
		lib = l
		libMu.Unlock()
	})
	libMu.RLock()
	defer libMu.RUnlock()
	return lib
}
