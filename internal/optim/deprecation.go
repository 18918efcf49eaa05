package optim

import (
	"fmt"
	"log"
	"sync"
)

// Deprecation warnings go through a swappable handler so callers (and tests)
// can capture them. The default writes to the standard logger.
var (
	deprecationMu      sync.Mutex
	deprecationHandler = func(msg string) { log.Print(msg) }
)

// SetDeprecationHandler replaces the deprecation warning sink and returns the
// previous handler.
func SetDeprecationHandler(h func(msg string)) func(msg string) {
	deprecationMu.Lock()
	defer deprecationMu.Unlock()
	prev := deprecationHandler
	deprecationHandler = h
	return prev
}

// warnDeprecated emits one deprecation warning for a standalone gradient
// utility, naming its hook-based replacement.
func warnDeprecated(name string) {
	deprecationMu.Lock()
	h := deprecationHandler
	deprecationMu.Unlock()
	h(fmt.Sprintf("optim: %s is deprecated; register it as an ordinary optimizer hook", name))
}
