package storage

import (
	"fmt"
	"sort"
	"sync"
)

// Database owns every Table, grouped by tenant namespace, the way the
// teacher's storage.DB/CatalogManager multiplexes tenants. Single-tenant
// callers use one constant tenant name (conventionally "default"); nothing
// below assumes there is only one.
//
// Registering or dropping a tenant's table map is guarded by mu so that
// concurrent callers can safely create/drop tenants; per spec §5, exclusive
// access to a single table during a single statement's execution is the
// caller's responsibility, not this type's.
type Database struct {
	mu      sync.RWMutex
	tenants map[string]map[string]*Table
}

// NewDatabase returns an empty, ready-to-use Database.
func NewDatabase() *Database {
	return &Database{tenants: make(map[string]map[string]*Table)}
}

func (d *Database) tenantMap(tenant string) map[string]*Table {
	m, ok := d.tenants[tenant]
	if !ok {
		m = make(map[string]*Table)
		d.tenants[tenant] = m
	}
	return m
}

// Get looks up a table by tenant and name.
func (d *Database) Get(tenant, name string) (*Table, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	tbl, ok := d.tenants[tenant][name]
	if !ok {
		return nil, fmt.Errorf("no such table %q", name)
	}
	return tbl, nil
}

// Has reports whether a table exists without erroring.
func (d *Database) Has(tenant, name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.tenants[tenant][name]
	return ok
}

// Put registers (or replaces) a table under the tenant namespace.
func (d *Database) Put(tenant string, t *Table) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tenantMap(tenant)[t.Name] = t
}

// Drop removes a table, returning an error if it did not exist.
func (d *Database) Drop(tenant, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	m := d.tenants[tenant]
	if _, ok := m[name]; !ok {
		return fmt.Errorf("no such table %q", name)
	}
	delete(m, name)
	return nil
}

// ListTables returns the sorted names of every table registered for tenant.
func (d *Database) ListTables(tenant string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.tenants[tenant]))
	for name := range d.tenants[tenant] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
