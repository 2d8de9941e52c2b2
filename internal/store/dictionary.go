package store

import (
	"database/sql"
	"strings"
)

// DictionaryRepository provides access to the wordlist backing spelling
// suggestions.
type DictionaryRepository struct {
	db *sql.DB
}

// Dictionary returns the dictionary repository for this store.
func (s *Store) Dictionary() *DictionaryRepository {
	return &DictionaryRepository{db: s.db}
}

// Add inserts words into the dictionary in a single transaction. Words are
// stored uppercase to match committed fingerspelling output; duplicates are
// ignored.
func (r *DictionaryRepository) Add(words ...string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO dictionary (word) VALUES (?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, w := range words {
		w = strings.ToUpper(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, err := stmt.Exec(w); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Contains reports whether a word is in the dictionary.
func (r *DictionaryRepository) Contains(word string) (bool, error) {
	var found string
	err := r.db.QueryRow(
		`SELECT word FROM dictionary WHERE word = ?`,
		strings.ToUpper(word),
	).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Words retrieves the full wordlist.
func (r *DictionaryRepository) Words() ([]string, error) {
	rows, err := r.db.Query(`SELECT word FROM dictionary ORDER BY word`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		words = append(words, w)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return words, nil
}

// Count returns the number of dictionary entries.
func (r *DictionaryRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM dictionary`).Scan(&n)
	return n, err
}
