package authflow

import (
	"fmt"
	"io"
	"sync"
)

// console serializes writes to the terminal. Child output echoes, scheduled
// replies and status lines are produced from different goroutines.
type console struct {
	mu     sync.Mutex
	stdout io.Writer
	stderr io.Writer
}

func (c *console) Out(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.stdout, format, args...)
}

func (c *console) Err(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.stderr, format, args...)
}

// Echo copies a chunk verbatim.
func (c *console) Echo(chunk string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.stdout, chunk)
}
