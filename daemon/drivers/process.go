// Package drivers holds the common subprocess lifecycle shared by every
// C5 adapter (supplicant, dhcpclient, vpn, aphost, dhcpserver): start,
// graceful-then-forced stop, and stderr capture for user-visible error
// messages.
//
// Grounded on the teacher's cmd/dockerd/trap package (os/exec.Command,
// process signaling, exit-status inspection) for subprocess control,
// and on spec §5's explicit timeouts (5s graceful stop then force-kill).
package drivers

import (
	"bytes"
	"context"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/netguard/netguardd/internal/errdefs"
	"github.com/netguard/netguardd/internal/validate"
)

// StopGrace is how long Process.Stop waits after SIGTERM before
// escalating to SIGKILL (§5 "Timeouts").
const StopGrace = 5 * time.Second

// Process manages one long-running helper subprocess (wpa_supplicant,
// dhclient, a VPN backend binary, hostapd, a DHCP server daemon...).
type Process struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	stderr *bytes.Buffer
	done   chan struct{}
	waitErr error
}

// Start launches name with args, capturing stderr for diagnostics.
// Returns errdefs.AlreadyActive if a process is already running under
// this handle.
func (p *Process) Start(name string, args ...string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd != nil {
		select {
		case <-p.done:
		default:
			return errdefs.AlreadyActive(errString("subprocess already running"))
		}
	}

	cmd := exec.Command(name, args...)
	buf := &bytes.Buffer{}
	cmd.Stderr = buf
	if err := cmd.Start(); err != nil {
		return errdefs.CommandFailed(err)
	}

	done := make(chan struct{})
	p.cmd = cmd
	p.stderr = buf
	p.done = done
	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		p.waitErr = err
		p.mu.Unlock()
		close(done)
	}()
	return nil
}

// Running reports whether the subprocess is currently alive.
func (p *Process) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd == nil {
		return false
	}
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// Stop sends SIGTERM, waits up to StopGrace, then SIGKILLs and waits for
// exit. Stopping an already-stopped Process is a no-op success.
func (p *Process) Stop(ctx context.Context) error {
	p.mu.Lock()
	cmd := p.cmd
	done := p.done
	p.mu.Unlock()
	if cmd == nil {
		return nil
	}

	_ = cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-done:
	case <-time.After(StopGrace):
		_ = cmd.Process.Kill()
		<-done
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
	}

	p.mu.Lock()
	p.cmd = nil
	p.mu.Unlock()
	return nil
}

// StderrTail returns the sanitized trailing stderr output (§7 "Subprocess
// stderr is sanitized") for inclusion in a user-visible error.
func (p *Process) StderrTail() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stderr == nil {
		return ""
	}
	return validate.TruncateSubprocessError(p.stderr.Bytes())
}

// WaitError returns the exit error of a finished process, or nil if it
// is still running or exited cleanly.
func (p *Process) WaitError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waitErr
}

// Run executes a one-shot helper command to completion (used for
// point-in-time calls like `wpa_cli` status queries or `dhclient -r`
// release), returning its combined stdout and a sanitized error on
// non-zero exit.
func Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, errdefs.CommandFailed(errString(validate.TruncateSubprocessError(stderr.Bytes())))
	}
	return out, nil
}

type errString string

func (e errString) Error() string { return string(e) }
