package helpers

import (
	"fmt"
	"sync"
	"time"

	"github.com/andrescamacho/trekbot-go/internal/adapters/interpreter"
)

// Exchange is one scripted round of interpreter output followed by one
// expected command from the player. An exchange with no lines models an
// interpreter that has gone silent.
type Exchange struct {
	Lines []string
}

// ScriptedConn is a test double for the interpreter transport. It replays
// a fixed transcript: each write from the player releases the next
// exchange of output lines.
type ScriptedConn struct {
	mu         sync.Mutex
	script     []Exchange
	idx        int
	pending    []string
	writes     []string
	terminated bool

	// WriteErr, when set, fails every WriteLine with it.
	WriteErr error
}

// NewScriptedConn builds a conn that starts by emitting the first
// exchange's lines.
func NewScriptedConn(script ...Exchange) *ScriptedConn {
	c := &ScriptedConn{script: script}
	if len(script) > 0 {
		c.pending = append(c.pending, script[0].Lines...)
	}
	return c
}

// ReadLine pops the next scripted line. With nothing pending it reports
// end of stream once the script is exhausted, or a timeout while the
// script is waiting for the player to write.
func (c *ScriptedConn) ReadLine(timeout time.Duration) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pending) > 0 {
		line := c.pending[0]
		c.pending = c.pending[1:]
		return line, nil
	}
	if c.idx >= len(c.script)-1 {
		return "", interpreter.ErrEndOfStream
	}
	return "", fmt.Errorf("%w after %s", interpreter.ErrTimeout, timeout)
}

// WriteLine records the command and releases the next exchange.
func (c *ScriptedConn) WriteLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.WriteErr != nil {
		return c.WriteErr
	}
	c.writes = append(c.writes, line)
	c.idx++
	if c.idx < len(c.script) {
		c.pending = append(c.pending, c.script[c.idx].Lines...)
	}
	return nil
}

// IsAlive reports whether Terminate has been called.
func (c *ScriptedConn) IsAlive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.terminated
}

// Terminate marks the conn dead.
func (c *ScriptedConn) Terminate(time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.terminated = true
	return nil
}

// Writes returns every command line the player sent, in order.
func (c *ScriptedConn) Writes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.writes...)
}
