package actors

import (
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// JournalOpenPerm is the permission the journal file is created with.
const JournalOpenPerm = 0660

// JournalPath is where the conductor keeps its transaction journal.
func JournalPath() string {
	return filepath.Join(directory(), MakeOrGetConfig().GetString("journalFile"))
}

// OpenJournal opens (creating if needed) the bbolt file at path.
func OpenJournal(path string) (*bolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return bolt.Open(path, JournalOpenPerm, &bolt.Options{Timeout: time.Second * 5})
}

func directory() string {
	dir := MakeOrGetConfig().GetString("rootDir")
	return filepath.Join(dir, MakeOrGetConfig().GetString("flatFileDir"))
}
