package entities

// Entry is a single native/target word pair from a user's dictionary.
// Entries are immutable after import; the ID is stable for the lifetime
// of the imported dictionary.
type Entry struct {
	ID         int64  // unique entry ID within the dictionary
	UserID     int64  // owner of the dictionary
	NativeText string // word in the user's native language
	TargetText string // translation in the language being learned
}

// WordPair is a raw pair read from a dictionary source before it gets an ID.
type WordPair struct {
	NativeText string
	TargetText string
}

// LanguagePair holds the language labels detected from the dictionary header.
type LanguagePair struct {
	Native string // e.g. "Русский"
	Target string // e.g. "English"
}
