package store

// OpenMemory creates a Store backed by an in-memory database.
// This is only intended for use in tests.
func OpenMemory() (*Store, error) {
	return openPath(":memory:")
}
