package conductor

import (
	"encoding/binary"
	"fmt"

	"fedid/engine/actors"
	"fedid/engine/library"
	json "github.com/nikkolasg/hexjson"
	bolt "go.etcd.io/bbolt"
)

var journalBucket = []byte("journal")

type journal struct {
	db *bolt.DB
}

func openJournal(path string) (*journal, error) {
	db, err := actors.OpenJournal(path)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(journalBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &journal{db: db}, nil
}

func seqKey(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

// record stores e under the next sequence number, then runs apply inside the same bolt
// transaction. An error from apply rolls the entry back. applied is set once apply has returned nil,
// so an error with applied set means the minds moved but the entry was never committed.
func (j *journal) record(e *Entry, apply func() error) (applied bool, err error) {
	err = j.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(journalBucket)
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		e.Receipt.Seq = seq
		buf, err := json.Marshal(e)
		if err != nil {
			return err
		}
		if err := bucket.Put(seqKey(seq), buf); err != nil {
			return err
		}
		if err := apply(); err != nil {
			return err
		}
		applied = true
		return nil
	})
	return
}

// each calls fn for every entry in sequence order, stopping at the first error.
func (j *journal) each(fn func(Entry) error) error {
	return j.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(journalBucket).ForEach(func(k, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("journal entry %d: %w", binary.BigEndian.Uint64(k), err)
			}
			return fn(e)
		})
	})
}

// ReadJournal returns every entry of the journal at path. The journal must not be open elsewhere.
func ReadJournal(path string) ([]Entry, error) {
	j, err := openJournal(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := j.db.Close(); err != nil {
			library.LogCLI(err.Error(), 1)
		}
	}()
	var entries []Entry
	err = j.each(func(e Entry) error {
		entries = append(entries, e)
		return nil
	})
	return entries, err
}
