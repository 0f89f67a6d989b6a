package store

// Tag is a name/value pair attached to an entry. Tags are sealed at rest
// unless Plaintext is set.
type Tag struct {
	Name      string
	Value     string
	Plaintext bool
}

// Entry is a decrypted record.
type Entry struct {
	Category string
	Name     string
	Value    []byte
	Tags     []Tag
}

// Filter narrows FetchAll. The zero value matches every entry.
type Filter struct {
	// Category restricts results to one category when non-empty.
	Category string
	// Limit caps the number of entries when positive.
	Limit int
}
