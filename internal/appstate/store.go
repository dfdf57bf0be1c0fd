package appstate

import (
	"sync"

	"staffdir/internal/directory"
	"staffdir/internal/identity"
	"staffdir/internal/structs"
	"staffdir/pkg/logger"

	"go.uber.org/fx"
)

var (
	Module = fx.Provide(New)
)

// State is the single process-wide application state snapshot. SearchResults
// being non-empty means the list view is in search mode and must render it
// instead of Employees.
type State struct {
	Session          *structs.Session   `json:"session,omitempty"`
	Employees        []structs.Employee `json:"employees"`
	SelectedEmployee *structs.Employee  `json:"selectedEmployee,omitempty"`
	SearchResults    []structs.Employee `json:"searchResults"`
	Loading          bool               `json:"loading"`
	Error            string             `json:"error,omitempty"`
}

type (
	Params struct {
		fx.In

		Directory directory.Service
		Identity  identity.Service
		Logger    logger.Logger
	}

	// Store owns the application state. It is mutated only through the
	// action methods in actions.go, each of which passes through
	// pending -> fulfilled | rejected; resolution handlers are the single
	// writer, serialized under the mutex.
	Store struct {
		directory directory.Service
		identity  identity.Service
		logger    logger.Logger

		mu    sync.Mutex
		state State
	}
)

func New(p Params) *Store {
	st := &Store{
		directory: p.Directory,
		identity:  p.Identity,
		logger:    p.Logger,
	}

	// single startup subscription: external session changes (expiry,
	// logout elsewhere) flow into the state the same way auth actions do
	go st.watchSessions(p.Identity.Sessions())

	return st
}

func (st *Store) watchSessions(sessions <-chan *structs.Session) {
	for session := range sessions {
		st.mu.Lock()
		st.state.Session = session
		st.mu.Unlock()
	}
}

// Snapshot returns a copy of the current state; slices are copied so
// readers never alias the store's own buffers.
func (st *Store) Snapshot() State {
	st.mu.Lock()
	defer st.mu.Unlock()

	snap := st.state
	snap.Employees = append([]structs.Employee(nil), st.state.Employees...)
	snap.SearchResults = append([]structs.Employee(nil), st.state.SearchResults...)
	if st.state.SelectedEmployee != nil {
		selected := *st.state.SelectedEmployee
		snap.SelectedEmployee = &selected
	}
	if st.state.Session != nil {
		session := *st.state.Session
		snap.Session = &session
	}
	return snap
}

// pending: loading on, previous error cleared.
func (st *Store) begin() {
	st.mu.Lock()
	st.state.Loading = true
	st.state.Error = ""
	st.mu.Unlock()
}

// rejected: the failure message is stored verbatim for the error banner.
func (st *Store) reject(err error) {
	st.mu.Lock()
	st.state.Loading = false
	st.state.Error = err.Error()
	st.mu.Unlock()
}

// fulfilled: the reducer merges the payload into the state.
func (st *Store) fulfill(reduce func(*State)) {
	st.mu.Lock()
	st.state.Loading = false
	reduce(&st.state)
	st.mu.Unlock()
}

func (st *Store) ClearError() {
	st.mu.Lock()
	st.state.Error = ""
	st.mu.Unlock()
}

func (st *Store) ClearSearchResults() {
	st.mu.Lock()
	st.state.SearchResults = nil
	st.mu.Unlock()
}

func (st *Store) ClearSelectedEmployee() {
	st.mu.Lock()
	st.state.SelectedEmployee = nil
	st.mu.Unlock()
}
