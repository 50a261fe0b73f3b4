package interpreter

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"
)

// readBufferSize bounds how many completed lines can queue up before the
// reader goroutine blocks. A full game transcript is a few thousand lines;
// the player drains continuously so the buffer only absorbs bursts.
const readBufferSize = 256

// Transport owns one interpreter subprocess and exposes its text protocol
// as a line stream. It spawns the process, pumps stdout on a dedicated
// goroutine and serializes writes to stdin.
//
// BASIC INPUT statements print their "? " prompt without a trailing
// newline, so the reader cannot wait for newlines alone: any byte run
// ending in '?' is flushed as a completed line too. Without that rule the
// transport would deadlock waiting for a newline the interpreter will
// never send.
type Transport struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser

	lines  chan string
	waitCh chan error

	// quit releases a pump blocked on a full line buffer once the
	// process is being torn down.
	quit     chan struct{}
	quitOnce sync.Once

	writeMu sync.Mutex

	doneMu sync.Mutex
	done   bool
	exit   error
}

// Spawn starts the interpreter with the given argv and wires up the line
// stream. argv[0] is the program path; stderr is folded into the stdout
// stream so diagnostics surface as ordinary lines.
func Spawn(argv []string, dir string) (*Transport, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: empty argv", ErrSpawn)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
	}

	t := &Transport{
		cmd:    cmd,
		stdin:  stdin,
		lines:  make(chan string, readBufferSize),
		waitCh: make(chan error, 1),
		quit:   make(chan struct{}),
	}
	go t.pump(stdout)
	go func() { t.waitCh <- cmd.Wait() }()
	return t, nil
}

// pump reads stdout byte by byte, emitting a line on '\n' and flushing a
// partial line whenever it ends in '?' so INPUT prompts surface promptly.
// A reader that stops draining must not strand the pump: every send also
// watches the quit channel closed during teardown.
func (t *Transport) pump(stdout io.Reader) {
	defer close(t.lines)

	r := bufio.NewReader(stdout)
	var buf strings.Builder
	for {
		b, err := r.ReadByte()
		if err != nil {
			if buf.Len() > 0 {
				t.emit(trimLine(buf.String()))
			}
			return
		}
		switch b {
		case '\n':
			if !t.emit(trimLine(buf.String())) {
				return
			}
			buf.Reset()
		case '\r':
			// Some interpreter builds emit CRLF; the CR is noise.
		default:
			buf.WriteByte(b)
			if b == '?' {
				if !t.emit(trimLine(buf.String())) {
					return
				}
				buf.Reset()
			}
		}
	}
}

func (t *Transport) emit(line string) bool {
	select {
	case t.lines <- line:
		return true
	case <-t.quit:
		return false
	}
}

func trimLine(s string) string {
	return strings.TrimRight(s, " \t")
}

// ReadLine returns the next completed output line, waiting up to timeout.
// It returns ErrTimeout when nothing arrives in time and ErrEndOfStream
// once the output is closed and drained.
func (t *Transport) ReadLine(timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case line, ok := <-t.lines:
		if !ok {
			return "", ErrEndOfStream
		}
		return line, nil
	case <-timer.C:
		return "", fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
}

// WriteLine delivers one command line followed by a newline. Concurrent
// writers are serialized so lines never interleave.
func (t *Transport) WriteLine(line string) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if _, err := io.WriteString(t.stdin, line+"\n"); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// IsAlive reports whether the subprocess is still running.
func (t *Transport) IsAlive() bool {
	t.doneMu.Lock()
	defer t.doneMu.Unlock()
	if t.done {
		return false
	}
	select {
	case err := <-t.waitCh:
		t.done = true
		t.exit = err
		return false
	default:
		return true
	}
}

// Terminate shuts the subprocess down, politely first. It closes stdin,
// sends SIGTERM, and escalates to SIGKILL if the process has not exited
// within grace. Terminate is idempotent and never fails on an already
// dead process.
func (t *Transport) Terminate(grace time.Duration) error {
	t.quitOnce.Do(func() { close(t.quit) })

	t.writeMu.Lock()
	_ = t.stdin.Close()
	t.writeMu.Unlock()

	t.doneMu.Lock()
	if t.done {
		t.doneMu.Unlock()
		return nil
	}
	t.doneMu.Unlock()

	_ = t.cmd.Process.Signal(syscall.SIGTERM)

	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case err := <-t.waitCh:
		t.markDone(err)
		return nil
	case <-timer.C:
		_ = t.cmd.Process.Kill()
		err := <-t.waitCh
		t.markDone(err)
		return nil
	}
}

func (t *Transport) markDone(err error) {
	t.quitOnce.Do(func() { close(t.quit) })
	t.doneMu.Lock()
	t.done = true
	t.exit = err
	t.doneMu.Unlock()
}

// ExitError returns the recorded process exit error once the process has
// been observed dead, nil for a clean exit or a still-running process.
func (t *Transport) ExitError() error {
	t.doneMu.Lock()
	defer t.doneMu.Unlock()
	return t.exit
}
