package importer

import (
	"errors"
	"fmt"
)

// ErrConcurrencyLock means another live process holds the import lock for
// this game. The batch runner retries it with backoff.
var ErrConcurrencyLock = errors.New("another process is importing this game")

// UnknownXIDError is returned when a record references an xml id that was
// never registered with the identity map. Context names the table or
// element holding the dangling reference.
type UnknownXIDError struct {
	Kind    EntityKind
	XMLID   int32
	Context string
}

func (e *UnknownXIDError) Error() string {
	return fmt.Sprintf("unknown %s xml id %d in %s", e.Kind, e.XMLID, e.Context)
}
