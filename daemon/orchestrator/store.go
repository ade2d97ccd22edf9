// store.go holds the active-connection indexed table: an in-memory
// hashicorp/go-memdb table keyed by interface name, replacing a bespoke
// RWMutex+map with the teacher's usual indexed-table idiom for
// in-memory state that needs list/lookup by more than one key later
// (e.g. a future lookup by profile UUID).
package orchestrator

import (
	"github.com/hashicorp/go-memdb"
	"github.com/netguard/netguardd/daemon/model"
)

const tableActiveConnections = "active_connections"

func newSchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableActiveConnections: {
				Name: tableActiveConnections,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Interface"},
					},
					"uuid": {
						Name:    "uuid",
						Unique:  false,
						Indexer: &memdb.StringFieldIndex{Field: "ProfileUUID"},
					},
				},
			},
		},
	}
}

// activeRecord is the memdb row: ActiveConnection plus a denormalized
// ProfileUUID field so the "uuid" index doesn't need to reach into the
// nested Profile struct (go-memdb indexers operate on top-level fields).
type activeRecord struct {
	Interface   string
	ProfileUUID string
	Conn        model.ActiveConnection
}

type store struct {
	db *memdb.MemDB
}

func newStore() (*store, error) {
	db, err := memdb.NewMemDB(newSchema())
	if err != nil {
		return nil, err
	}
	return &store{db: db}, nil
}

func (s *store) put(conn model.ActiveConnection) error {
	txn := s.db.Txn(true)
	defer txn.Abort()
	rec := activeRecord{Interface: conn.Interface, ProfileUUID: conn.Profile.UUID, Conn: conn}
	if err := txn.Insert(tableActiveConnections, rec); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (s *store) get(interfaceName string) (model.ActiveConnection, bool, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	raw, err := txn.First(tableActiveConnections, "id", interfaceName)
	if err != nil {
		return model.ActiveConnection{}, false, err
	}
	if raw == nil {
		return model.ActiveConnection{}, false, nil
	}
	return raw.(activeRecord).Conn, true, nil
}

func (s *store) delete(interfaceName string) error {
	txn := s.db.Txn(true)
	defer txn.Abort()
	if _, err := txn.DeleteAll(tableActiveConnections, "id", interfaceName); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (s *store) list() ([]model.ActiveConnection, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(tableActiveConnections, "id")
	if err != nil {
		return nil, err
	}
	var out []model.ActiveConnection
	for raw := it.Next(); raw != nil; raw = it.Next() {
		out = append(out, raw.(activeRecord).Conn)
	}
	return out, nil
}
