package store

import (
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrDefaultCollection is returned when deleting or renaming the seeded
	// default collection.
	ErrDefaultCollection = errors.New("the default collection cannot be modified")

	// ErrCollectionNotFound is returned when a collection id does not exist.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrDuplicateCollection is returned when creating a collection whose
	// name is already taken.
	ErrDuplicateCollection = errors.New("collection name already exists")
)

// Collection groups matches for filtering. Every database carries an
// undeletable default named Personal with id 1.
type Collection struct {
	ID         int64  `db:"collection_id"`
	Name       string `db:"name"`
	IsDefault  bool   `db:"is_default"`
	MatchCount int64  `db:"match_count"`
}

// CreateCollection adds a named collection and returns it.
func (s *Store) CreateCollection(name string) (*Collection, error) {
	if name == "" {
		return nil, errors.New("collection name must not be empty")
	}

	var exists bool
	if err := s.db.Get(&exists, "SELECT COUNT(*) > 0 FROM collections WHERE name = ?", name); err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateCollection
	}

	res, err := s.db.Exec("INSERT INTO collections (name, is_default) VALUES (?, 0)", name)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Collection{ID: id, Name: name}, nil
}

// ListCollections returns all collections with their match counts, default
// first, then by name.
func (s *Store) ListCollections() ([]Collection, error) {
	var out []Collection
	err := s.db.Select(&out, `
		SELECT c.collection_id, c.name, c.is_default,
		       (SELECT COUNT(*) FROM matches m WHERE m.collection_id = c.collection_id) AS match_count
		FROM collections c
		ORDER BY c.is_default DESC, c.name`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return out, nil
}

// GetCollection looks a collection up by id.
func (s *Store) GetCollection(id int64) (*Collection, error) {
	var c Collection
	err := s.db.Get(&c, `
		SELECT collection_id, name, is_default,
		       (SELECT COUNT(*) FROM matches m WHERE m.collection_id = collections.collection_id) AS match_count
		FROM collections WHERE collection_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCollectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// RenameCollection changes a collection's name. The default collection keeps
// its seeded name.
func (s *Store) RenameCollection(id int64, name string) error {
	c, err := s.GetCollection(id)
	if err != nil {
		return err
	}
	if c.IsDefault {
		return ErrDefaultCollection
	}

	_, err = s.db.Exec("UPDATE collections SET name = ? WHERE collection_id = ?", name, id)
	return err
}

// DeleteCollection removes a collection, re-parenting its matches to the
// default collection. The default itself cannot be deleted.
func (s *Store) DeleteCollection(id int64) error {
	c, err := s.GetCollection(id)
	if err != nil {
		return err
	}
	if c.IsDefault {
		return ErrDefaultCollection
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var defaultID int64
	if err := tx.Get(&defaultID, "SELECT collection_id FROM collections WHERE is_default = 1"); err != nil {
		return fmt.Errorf("default collection: %w", err)
	}
	if _, err := tx.Exec("UPDATE matches SET collection_id = ? WHERE collection_id = ?", defaultID, id); err != nil {
		return fmt.Errorf("re-parent matches: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM collections WHERE collection_id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// AssignMatch moves a match into a collection.
func (s *Store) AssignMatch(matchID, collectionID int64) error {
	if _, err := s.GetCollection(collectionID); err != nil {
		return err
	}

	res, err := s.db.Exec("UPDATE matches SET collection_id = ? WHERE match_id = ?", collectionID, matchID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("match %d not found", matchID)
	}
	return nil
}
