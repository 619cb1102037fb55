// Package lifecycle holds process lifecycle constants shared by infrastructure
// and delivery components.
package lifecycle

import "time"

// DefaultTimeout bounds startup probes and graceful shutdown steps.
const DefaultTimeout = 10 * time.Second
