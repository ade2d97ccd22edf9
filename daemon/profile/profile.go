// Package profile is the connection-profile persistence layer (§6
// "Persisted state layout"): one TOML document per profile in a
// connections directory, filename stem equal to the profile name. The
// document layout is ConnectionProfile's own field tags: uuid, name,
// kind, interface_hint, autoconnect and created_at as top-level keys,
// plus the tables wifi, vpn, bridge, vlan, tuntap, ipv4 and ipv6. There
// are no connection, wifi-security or ethernet tables.
//
// Grounded on daemon/privtoken's atomic write-then-rename convention
// for the file write path, and the teacher's config package (teacher:
// daemon/config/config_test.go expects JSON-file-backed config; this
// package is the same idea applied to TOML-backed per-profile files,
// as spec §6 requires for connection profiles specifically).
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml"

	"github.com/netguard/netguardd/daemon/model"
	"github.com/netguard/netguardd/internal/errdefs"
	"github.com/netguard/netguardd/internal/validate"
)

const fileExt = ".toml"

// Store manages one ConnectionProfile file per named profile under dir.
type Store struct {
	mu  sync.Mutex
	dir string
}

// New creates a Store rooted at dir. The directory need not exist yet;
// the first write creates it (mode 0755).
func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) pathFor(name string) string {
	return filepath.Join(s.dir, name+fileExt)
}

// Get loads the named profile.
func (s *Store) Get(name string) (model.ConnectionProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(name)
}

func (s *Store) read(name string) (model.ConnectionProfile, error) {
	data, err := os.ReadFile(s.pathFor(name))
	if err != nil {
		if os.IsNotExist(err) {
			return model.ConnectionProfile{}, errdefs.NotFound(fmt.Errorf("profile %q not found", name))
		}
		return model.ConnectionProfile{}, errdefs.IO(err)
	}
	var p model.ConnectionProfile
	if err := toml.Unmarshal(data, &p); err != nil {
		return model.ConnectionProfile{}, errdefs.ParseError(err)
	}
	return p, nil
}

// List loads every profile in the store.
func (s *Store) List() ([]model.ConnectionProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errdefs.IO(err)
	}
	var out []model.ConnectionProfile
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != fileExt {
			continue
		}
		name := e.Name()[:len(e.Name())-len(fileExt)]
		p, err := s.read(name)
		if err != nil {
			continue // skip unreadable/corrupt profile files rather than fail the whole list
		}
		out = append(out, p)
	}
	return out, nil
}

// Add validates and stores a new profile, assigning a UUID if the
// caller left it blank, and returns that UUID. A profile with the same
// name must not already exist.
func (s *Store) Add(p model.ConnectionProfile) (string, error) {
	if err := validate.Hostname(p.Name); err != nil {
		return "", errdefs.InvalidParameter(fmt.Errorf("profile name %q: %w", p.Name, err))
	}
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(s.pathFor(p.Name)); err == nil {
		return "", errdefs.AlreadyExists(fmt.Errorf("profile %q already exists", p.Name))
	}
	if err := s.write(p); err != nil {
		return "", err
	}
	return p.UUID, nil
}

func (s *Store) write(p model.ConnectionProfile) error {
	data, err := toml.Marshal(p)
	if err != nil {
		return errdefs.ParseError(err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errdefs.IO(err)
	}
	tmp := s.pathFor(p.Name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errdefs.IO(err)
	}
	if err := os.Rename(tmp, s.pathFor(p.Name)); err != nil {
		return errdefs.IO(err)
	}
	return nil
}

// Delete removes a profile by UUID, resolving it to its filename via a
// List scan since the filename stem is the profile *name*, not its
// UUID. Deleting an unknown UUID is success.
func (s *Store) Delete(uuid string) error {
	all, err := s.List()
	if err != nil {
		return err
	}
	for _, p := range all {
		if p.UUID == uuid {
			s.mu.Lock()
			err := os.Remove(s.pathFor(p.Name))
			s.mu.Unlock()
			if err != nil && !os.IsNotExist(err) {
				return errdefs.IO(err)
			}
			return nil
		}
	}
	return nil
}
