package meta

// State is the slice of the fuzzing state the observer needs: a slot for the
// session's Store. Fuzzers embed Session or implement it on their own state.
type State interface {
	CmpValues() *Store
	SetCmpValues(*Store)
}

// Session is the minimal State.
type Session struct {
	store *Store
}

// CmpValues returns the session Store, nil until one is set.
func (s *Session) CmpValues() *Store {
	return s.store
}

// SetCmpValues installs st as the session Store.
func (s *Session) SetCmpValues(st *Store) {
	s.store = st
}

// StoreOf returns the Store held by st, installing a new one if absent.
func StoreOf(st State) *Store {
	if s := st.CmpValues(); s != nil {
		return s
	}
	s := NewStore()
	st.SetCmpValues(s)
	return s
}
