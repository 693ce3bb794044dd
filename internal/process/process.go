// Package process manages the lifetime of external tool subprocesses.
package process

import "time"

// waitDelay bounds how long Wait blocks on I/O after the process is killed.
const waitDelay = 5 * time.Second
