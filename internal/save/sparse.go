package save

import (
	"sort"
	"strconv"
	"strings"

	"github.com/becked/per-ankh-sub000/internal/xmltree"
)

// Sparse per-turn histories are encoded as children named T<n> where n is the
// turn: <T0>13</T0><T4>21</T4>. Only turns where the value changed are
// present; readers reconstruct the full series by forward-filling.

// sparseTurnValues reads the T<n> children of the named container under
// parent. A missing container yields an empty series. Samples come back
// sorted by turn.
func sparseTurnValues(parent *xmltree.Node, container string) []TurnValue {
	c := parent.Child(container)
	if c == nil {
		return nil
	}
	return turnValues(c)
}

func turnValues(container *xmltree.Node) []TurnValue {
	var out []TurnValue
	for _, child := range container.Children {
		turn, ok := parseTurnTag(child.Tag)
		if !ok {
			continue
		}
		v, err := strconv.ParseInt(child.Text, 10, 32)
		if err != nil {
			continue
		}
		out = append(out, TurnValue{Turn: turn, Value: int32(v)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Turn < out[j].Turn })
	return out
}

// sparseByCategory reads a container whose children are category elements
// each holding their own T<n> samples:
//
//	<FamilyOpinion>
//	  <FAMILY_JULII><T0>40</T0><T7>55</T7></FAMILY_JULII>
//	</FamilyOpinion>
func sparseByCategory(parent *xmltree.Node, container string) map[string][]TurnValue {
	c := parent.Child(container)
	if c == nil {
		return nil
	}
	out := make(map[string][]TurnValue, len(c.Children))
	for _, cat := range c.Children {
		if vs := turnValues(cat); len(vs) > 0 {
			out[cat.Tag] = vs
		}
	}
	return out
}

func parseTurnTag(tag string) (int32, bool) {
	if !strings.HasPrefix(tag, "T") || len(tag) < 2 {
		return 0, false
	}
	n, err := strconv.ParseInt(tag[1:], 10, 32)
	if err != nil || n < 0 {
		return 0, false
	}
	return int32(n), true
}
