package storage

// SnapshotStore is the client-local key-value storage the cart persists
// into. One key holds at most one JSON document; deleting the key is how
// "no cart" is recorded.
type SnapshotStore interface {
	Read(key string) ([]byte, bool, error)
	Write(key string, data []byte) error
	Delete(key string) error
}
