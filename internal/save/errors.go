package save

import (
	"fmt"

	"github.com/becked/per-ankh-sub000/internal/xmltree"
)

func xmlIntError(n *xmltree.Node) error {
	return fmt.Errorf("%w: %s=%q is not an integer", xmltree.ErrInvalidFormat, n.Path(), n.Text)
}
