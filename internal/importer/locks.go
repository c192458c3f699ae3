package importer

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

// lockStaleAfter is how old a cross-process lock row must be before another
// process may steal it. Imports take seconds; ten minutes means the holder
// is dead.
const lockStaleAfter = 10 * time.Minute

// gameLocks serializes imports of the same game within this process.
// Different games proceed concurrently.
var gameLocks = struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}{m: make(map[string]*sync.Mutex)}

func lockGame(gameID string) *sync.Mutex {
	gameLocks.mu.Lock()
	l, ok := gameLocks.m[gameID]
	if !ok {
		l = &sync.Mutex{}
		gameLocks.m[gameID] = l
	}
	gameLocks.mu.Unlock()

	l.Lock()
	return l
}

// acquireMatchLock takes the cross-process lock for a game inside the import
// transaction. The upsert only fires against a stale row; zero rows affected
// means a live process holds the lock.
func acquireMatchLock(tx *sqlx.Tx, gameID string) error {
	now := time.Now().Unix()
	stale := now - int64(lockStaleAfter/time.Second)

	res, err := tx.Exec(`
		INSERT INTO match_locks (game_id, locked_at, locked_by_pid) VALUES (?, ?, ?)
		ON CONFLICT (game_id) DO UPDATE SET
			locked_at = excluded.locked_at,
			locked_by_pid = excluded.locked_by_pid
		WHERE match_locks.locked_at < ?`,
		gameID, now, os.Getpid(), stale)
	if err != nil {
		return fmt.Errorf("acquire match lock: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConcurrencyLock
	}
	return nil
}

// releaseMatchLock deletes the lock row. Called just before commit; a
// rollback releases the row implicitly.
func releaseMatchLock(tx *sqlx.Tx, gameID string) error {
	_, err := tx.Exec("DELETE FROM match_locks WHERE game_id = ?", gameID)
	return err
}
