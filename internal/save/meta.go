package save

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/becked/per-ankh-sub000/internal/xmltree"
)

// ParseMatch reads the per-game metadata off the Root element.
func ParseMatch(doc *xmltree.Document) (*Match, error) {
	root := doc.Root()

	gameID, err := root.ReqAttr("GameId")
	if err != nil {
		return nil, err
	}
	turns, err := parseTurn(root)
	if err != nil {
		return nil, err
	}
	mapWidth, err := root.ReqAttrInt("MapWidth")
	if err != nil {
		return nil, err
	}

	m := &Match{
		GameID:     gameID,
		TotalTurns: turns,
		MapWidth:   mapWidth,
		GameName:   optString(root.OptAttr("GameName")),
		GameMode:   optString(root.OptAttr("GameMode")),
		TurnStyle:  optString(root.OptAttr("TurnStyle")),
		Difficulty: optString(root.OptAttr("Difficulty")),
	}
	if h := root.OptAttrInt("MapHeight"); h != nil {
		m.MapHeight = *h
	}
	m.OwnerPlayerXMLID = NormalizeID(root.OptAttrInt("Player"))

	if v, ok := root.OptAttr("MapSeed"); ok {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			m.MapSeed = &seed
		}
	}
	if v, ok := root.OptAttr("GameSeed"); ok {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			m.GameSeed = &seed
		}
	}

	if v, ok := root.OptAttr("Version"); ok && v != "" {
		m.Version = &v
		if build, ok := ParseVersionBuild(v); ok {
			m.VersionBuild = &build
		}
	}
	if v, ok := root.OptAttr("SaveDate"); ok && v != "" {
		if iso, err := ParseSaveDate(v); err == nil {
			m.SaveDate = &iso
		}
	}

	m.Winner = parseWinnerHint(root)
	return m, nil
}

// parseTurn reads the current turn. Saves carry it as a Turn child of the
// Game element; older ones put it on the Root attributes.
func parseTurn(root *xmltree.Node) (int32, error) {
	if game := root.Child("Game"); game != nil {
		if t := game.OptChildInt("Turn"); t != nil {
			return *t, nil
		}
	}
	return root.ReqAttrInt("Turn")
}

// parseWinnerHint inspects the Game element for victory evidence.
func parseWinnerHint(root *xmltree.Node) WinnerHint {
	var hint WinnerHint
	game := root.Child("Game")
	if game == nil {
		return hint
	}
	hint.VictorPlayerXMLID = NormalizeID(game.OptAttrInt("Victor"))
	if tv := game.Child("TeamVictories"); tv != nil && len(tv.Children) > 0 {
		hint.HasTeamVictory = true
		vt := tv.Children[0].Tag
		hint.VictoryType = &vt
	}
	return hint
}

// ParseVersionBuild extracts the numeric build from a version string of the
// form "Version: 1.0.71580 (+DLC_...)=checksum". The build is the last
// dot-separated number before any DLC or checksum suffix.
func ParseVersionBuild(version string) (int32, bool) {
	s := strings.TrimSpace(strings.TrimPrefix(version, "Version:"))
	if i := strings.IndexByte(s, '='); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '+'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// ParseSaveDate converts the save format's "2 March 2025" dates to ISO.
func ParseSaveDate(s string) (string, error) {
	t, err := time.Parse("2 January 2006", strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("parse save date %q: %w", s, err)
	}
	return t.Format("2006-01-02"), nil
}
