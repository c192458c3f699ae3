package importer

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// EntityKind names one identity namespace in id_mappings.
type EntityKind string

const (
	KindPlayer    EntityKind = "player"
	KindCharacter EntityKind = "character"
	KindCity      EntityKind = "city"
	KindUnit      EntityKind = "unit"
	KindTile      EntityKind = "tile"
	KindFamily    EntityKind = "family"
	KindReligion  EntityKind = "religion"
	KindTribe     EntityKind = "tribe"
)

var allKinds = []EntityKind{
	KindPlayer, KindCharacter, KindCity, KindUnit,
	KindTile, KindFamily, KindReligion, KindTribe,
}

// IDMap assigns stable database ids to the xml ids of one match. Ids are
// monotonic per kind across the whole database, so rows from different
// matches never collide. On re-import the existing assignments are loaded
// first and re-used, keeping database ids stable across imports of the
// same game.
type IDMap struct {
	matchID int64
	next    map[EntityKind]int64
	ids     map[EntityKind]map[int32]int64
}

// NewIDMap seeds allocators from the current id_mappings high-water marks
// and loads any assignments already persisted for this match.
func NewIDMap(tx *sqlx.Tx, matchID int64) (*IDMap, error) {
	m := &IDMap{
		matchID: matchID,
		next:    make(map[EntityKind]int64, len(allKinds)),
		ids:     make(map[EntityKind]map[int32]int64, len(allKinds)),
	}
	for _, kind := range allKinds {
		m.ids[kind] = make(map[int32]int64)

		var max int64
		err := tx.Get(&max, "SELECT COALESCE(MAX(db_id), 0) FROM id_mappings WHERE entity_type = ?", string(kind))
		if err != nil {
			return nil, fmt.Errorf("seed %s allocator: %w", kind, err)
		}
		m.next[kind] = max + 1
	}

	rows, err := tx.Queryx(
		"SELECT entity_type, xml_id, db_id FROM id_mappings WHERE match_id = ?", matchID)
	if err != nil {
		return nil, fmt.Errorf("load id mappings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var xmlID int32
		var dbID int64
		if err := rows.Scan(&kind, &xmlID, &dbID); err != nil {
			return nil, err
		}
		m.ids[EntityKind(kind)][xmlID] = dbID
	}
	return m, rows.Err()
}

// Map returns the database id for an xml id, allocating one on first sight.
func (m *IDMap) Map(kind EntityKind, xmlID int32) int64 {
	if id, ok := m.ids[kind][xmlID]; ok {
		return id
	}
	id := m.next[kind]
	m.next[kind]++
	m.ids[kind][xmlID] = id
	return id
}

// Lookup returns the database id for an xml id already registered via Map.
// The context string names the table or element being resolved and is
// carried on the error for dangling references.
func (m *IDMap) Lookup(kind EntityKind, xmlID int32, context string) (int64, error) {
	id, ok := m.ids[kind][xmlID]
	if !ok {
		return 0, &UnknownXIDError{Kind: kind, XMLID: xmlID, Context: context}
	}
	return id, nil
}

// LookupOpt resolves an optional xml id. A nil input or an unregistered id
// both produce nil; saves routinely reference entities that are absent.
func (m *IDMap) LookupOpt(kind EntityKind, xmlID *int32) *int64 {
	if xmlID == nil {
		return nil
	}
	id, ok := m.ids[kind][*xmlID]
	if !ok {
		return nil
	}
	return &id
}

// Persist upserts every assignment into id_mappings.
func (m *IDMap) Persist(tx *sqlx.Tx) error {
	var rows [][]any
	for _, kind := range allKinds {
		for xmlID, dbID := range m.ids[kind] {
			rows = append(rows, []any{m.matchID, string(kind), xmlID, dbID})
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return bulkUpsert(tx, "id_mappings",
		[]string{"match_id", "entity_type", "xml_id", "db_id"},
		"ON CONFLICT (match_id, entity_type, xml_id) DO UPDATE SET db_id = excluded.db_id",
		rows)
}

// Count reports how many ids are registered for a kind.
func (m *IDMap) Count(kind EntityKind) int {
	return len(m.ids[kind])
}
