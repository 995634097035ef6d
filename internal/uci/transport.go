package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lgbarn/swapchess-go/internal/errors"
)

// Transport carries protocol lines to and from one engine instance.
// Lines is closed when the engine stops producing output.
type Transport interface {
	Send(line string) error
	Lines() <-chan string
	Errors() <-chan error
	Close() error
}

// closeGrace is how long Close waits for the engine to exit after its
// input is closed before killing it.
const closeGrace = 2 * time.Second

// ProcessTransport runs an engine as a child process and speaks to it over
// stdin and stdout.
type ProcessTransport struct {
	cmd *exec.Cmd

	mu     sync.Mutex
	stdin  io.WriteCloser
	w      *bufio.Writer
	closed bool

	lines     chan string
	errs      chan error
	exited    chan struct{}
	closeOnce sync.Once
}

// StartProcess starts argv[0] with the remaining arguments. The process is
// killed if ctx is cancelled.
func StartProcess(ctx context.Context, argv ...string) (*ProcessTransport, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, fmt.Errorf("no engine command: %w", errors.ErrInvalidConfig)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "engine stdin")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "engine stdout")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, errors.Wrap(err, "engine stderr")
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "starting %s", argv[0])
	}

	t := &ProcessTransport{
		cmd:    cmd,
		stdin:  stdin,
		w:      bufio.NewWriter(stdin),
		lines:  make(chan string, 64),
		errs:   make(chan error, 16),
		exited: make(chan struct{}),
	}

	var g errgroup.Group
	g.Go(func() error {
		defer close(t.lines)
		return scanLines(stdout, func(line string) { t.lines <- line })
	})
	g.Go(func() error {
		return scanLines(stderr, func(line string) {
			t.report(fmt.Errorf("engine stderr: %s", line))
		})
	})

	go func() {
		defer close(t.exited)
		defer close(t.errs)
		// Wait must not run before the pipes are drained.
		err := g.Wait()
		if werr := cmd.Wait(); err == nil {
			err = werr
		}
		if err != nil {
			t.report(errors.Wrapf(err, "engine %s", argv[0]))
		}
	}()

	return t, nil
}

func scanLines(r io.Reader, emit func(string)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		emit(strings.TrimRight(sc.Text(), "\r"))
	}
	return sc.Err()
}

// report forwards err without blocking; errors beyond the buffer are dropped.
func (t *ProcessTransport) report(err error) {
	select {
	case t.errs <- err:
	default:
	}
}

// Send writes one command line to the engine.
func (t *ProcessTransport) Send(line string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return errors.ErrEngineClosed
	}
	if _, err := t.w.WriteString(line + "\n"); err != nil {
		return err
	}
	return t.w.Flush()
}

// Lines returns the engine's stdout, one line per value.
func (t *ProcessTransport) Lines() <-chan string { return t.lines }

// Errors returns stderr output and the process exit error, if any.
func (t *ProcessTransport) Errors() <-chan error { return t.errs }

// Close closes the engine's stdin and waits for it to exit, killing it
// after a grace period.
func (t *ProcessTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		t.mu.Lock()
		t.closed = true
		err = t.stdin.Close()
		t.mu.Unlock()

		select {
		case <-t.exited:
		case <-time.After(closeGrace):
			if t.cmd.Process != nil {
				_ = t.cmd.Process.Kill()
			}
			<-t.exited
		}
	})
	return err
}

// Pid returns the engine's process id.
func (t *ProcessTransport) Pid() int {
	if t.cmd.Process == nil {
		return 0
	}
	return t.cmd.Process.Pid
}
