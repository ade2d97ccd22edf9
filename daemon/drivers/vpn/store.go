// store.go is the named VPN connection config store backing the
// gateway's VPN group operations ListConnections/GetConnectionInfo/
// Delete/Import/Export (§6). A named connection is just a backend tag
// plus an opaque config blob on disk; the blob's native syntax is the
// respective helper's own format (spec Non-goals), so the store never
// parses it.
package vpn

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/netguard/netguardd/daemon/model"
	"github.com/netguard/netguardd/internal/errdefs"
	"github.com/netguard/netguardd/internal/validate"
)

// ConnectionInfo describes one stored named VPN connection.
type ConnectionInfo struct {
	Name    string
	Backend model.VPNBackend
}

// Store manages named VPN connection configs under a directory, one
// file per connection named "<name>.<backend>".
type Store struct {
	mu  sync.Mutex
	dir string
}

// NewStore creates a Store rooted at dir. The directory need not exist
// yet; Import creates it (mode 0700) on first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(name string, backend model.VPNBackend) string {
	return filepath.Join(s.dir, name+"."+string(backend))
}

func (s *Store) findPath(name string) (string, model.VPNBackend, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", errdefs.NotFound(err)
		}
		return "", "", errdefs.IO(err)
	}
	prefix := name + "."
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if n := e.Name(); len(n) > len(prefix) && n[:len(prefix)] == prefix {
			return filepath.Join(s.dir, n), model.VPNBackend(n[len(prefix):]), nil
		}
	}
	return "", "", errdefs.NotFound(fmt.Errorf("vpn connection %q not found", name))
}

// Import stores raw config content under name for the given backend.
func (s *Store) Import(backend model.VPNBackend, name string, content []byte) error {
	if err := validate.Hostname(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return errdefs.IO(err)
	}
	tmp := s.path(name, backend) + ".tmp"
	if err := os.WriteFile(tmp, content, 0o600); err != nil {
		return errdefs.IO(err)
	}
	if err := os.Rename(tmp, s.path(name, backend)); err != nil {
		return errdefs.IO(err)
	}
	return nil
}

// Export returns the raw stored config content for name.
func (s *Store) Export(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path, _, err := s.findPath(name)
	if err != nil {
		return "", err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", errdefs.IO(err)
	}
	return string(content), nil
}

// Delete removes a stored named connection. Deleting an unknown name is
// success (mirroring the daemon's general "unknown target, no-op"
// convention for destructive operations).
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	path, _, err := s.findPath(name)
	if errdefs.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return errdefs.IO(err)
	}
	return nil
}

// GetConnectionInfo returns the backend a named connection was
// imported for.
func (s *Store) GetConnectionInfo(name string) (ConnectionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, backend, err := s.findPath(name)
	if err != nil {
		return ConnectionInfo{}, err
	}
	return ConnectionInfo{Name: name, Backend: backend}, nil
}

// ListConnections enumerates every stored named connection.
func (s *Store) ListConnections() ([]ConnectionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errdefs.IO(err)
	}
	out := make([]ConnectionInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if ext == "" || ext == ".tmp" {
			continue
		}
		out = append(out, ConnectionInfo{
			Name:    name[:len(name)-len(ext)],
			Backend: model.VPNBackend(ext[1:]),
		})
	}
	return out, nil
}
