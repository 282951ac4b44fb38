package votes

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"go.etcd.io/bbolt"
)

var votedBucket = []byte("voted")

// Store remembers which votes were cast from this machine. It is a
// convenience hint only; the server decides whether a vote counts.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the store at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create vote store directory: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open vote store %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(votedBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize vote store: %w", err)
	}

	return &Store{db: db}, nil
}

func voteKey(id int64) []byte {
	return []byte(strconv.FormatInt(id, 10))
}

// HasVoted reports whether id was marked as voted.
func (s *Store) HasVoted(id int64) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		found = tx.Bucket(votedBucket).Get(voteKey(id)) != nil
		return nil
	})
	return found, err
}

// MarkVoted records that id was voted on, with the chosen option.
func (s *Store) MarkVoted(id, optionID int64, at time.Time) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		val := []byte(strconv.FormatInt(optionID, 10) + "@" + at.UTC().Format(time.RFC3339))
		return tx.Bucket(votedBucket).Put(voteKey(id), val)
	})
}

// Forget removes the voted mark for id.
func (s *Store) Forget(id int64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(votedBucket).Delete(voteKey(id))
	})
}

// Voted returns every vote id marked as voted, ascending.
func (s *Store) Voted() ([]int64, error) {
	var ids []int64
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(votedBucket).ForEach(func(k, _ []byte) error {
			id, err := strconv.ParseInt(string(k), 10, 64)
			if err != nil {
				// Foreign keys are ignored.
				return nil
			}
			ids = append(ids, id)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Close releases the database file lock.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
