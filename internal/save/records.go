package save

// Typed records produced by the section parsers. These are the intermediate
// representation between the XML document and the store: xml ids only, no
// database ids, no I/O.

// Match carries the per-game metadata parsed from the Root element.
type Match struct {
	GameID      string
	GameName    *string
	TotalTurns  int32
	MapWidth    int32
	MapHeight   int32
	GameMode    *string
	TurnStyle   *string
	Difficulty  *string
	MapSeed     *int64
	GameSeed    *int64
	Version     *string
	VersionBuild *int32
	SaveDate    *string

	// Save-owner player xml id from the Root Player attribute, when present.
	OwnerPlayerXMLID *int32

	Winner WinnerHint
}

// WinnerHint captures the victory evidence present in the save. An explicit
// victor attribute wins; otherwise a non-empty TeamVictories block means the
// human player won (single-player convention).
type WinnerHint struct {
	VictorPlayerXMLID *int32
	HasTeamVictory    bool
	VictoryType       *string
}

type Player struct {
	XMLID   int32
	Name    string
	Nation  *string
	Dynasty *string
	TeamID  *string

	IsHuman     bool
	IsSaveOwner bool
	OnlineID    *string
	Email       *string
	Difficulty  *string

	LastTurnCompleted *int32
	TurnEnded         bool
	Legitimacy        *int32

	SuccessionGender         *string
	StateReligion            *string
	FounderCharacterXMLID    *int32
	ChosenHeirXMLID          *int32
	OriginalCapitalCityXMLID *int32

	TimeStockpile   *int32
	TechResearching *string

	AmbitionDelay         int32
	TilesPurchased        int32
	StateReligionChanges  int32
	TribeMercenariesHired int32
}

type Character struct {
	XMLID     int32
	FirstName *string
	Gender    *string

	PlayerXMLID *int32
	Family      *string
	Religion    *string
	Tribe       *string
	Nation      *string

	BirthTurn   int32
	DeathTurn   *int32
	DeathReason *string

	BirthFatherXMLID *int32
	BirthMotherXMLID *int32
	BirthCityXMLID   *int32

	Cognomen  *string
	Archetype *string
	Portrait  *string

	XP          *int32
	Level       *int32
	IsRoyal     bool
	IsInfertile bool

	BecameLeaderTurn *int32
	AbdicatedTurn    *int32
	NationJoinedTurn *int32
	WasReligionHead  bool
	WasFamilyHead    bool
	Seed             *int64
}

type City struct {
	XMLID int32
	Name  string

	PlayerXMLID      *int32
	FirstPlayerXMLID *int32
	LastPlayerXMLID  *int32
	TileXMLID        int32
	Family           *string

	FoundedTurn int32
	IsCapital   bool
	Citizens    int32

	GovernorXMLID *int32
	GovernorTurn  *int32

	HurryCivicsCount     int32
	HurryMoneyCount      int32
	HurryPopulationCount int32
	HurryTrainingCount   int32
	SpecialistCount      int32
	GrowthCount          int32
	UnitProductionCount  int32
	BuyTileCount         int32
}

type Tile struct {
	XMLID int32
	X     int32
	Y     int32

	Terrain    *string
	Height     *string
	Vegetation *string

	RiverW  bool
	RiverSW bool
	RiverSE bool

	Resource             *string
	Improvement          *string
	ImprovementPillaged  bool
	ImprovementDisabled  bool
	ImprovementTurnsLeft *int32
	Specialist           *string
	HasRoad              bool
	TribeSite            *string
	Religion             *string

	InitSeed *int64
	TurnSeed *int64

	// Current owner, derived from the greatest-turn OwnerHistory entry.
	OwnerPlayerXMLID *int32
	// Owning city, resolved into tiles.owner_city_id by a later patch pass.
	CityTerritoryXMLID *int32

	OwnerHistory []TurnValue
}

type Family struct {
	// XMLID is the stable 31-bit hash of Name; families have no numeric id
	// in the save format.
	XMLID int32
	Name  string
	Class string

	PlayerXMLID        int32
	HeadCharacterXMLID *int32
	SeatCityXMLID      *int32
	TurnsWithoutLeader int32
}

type Religion struct {
	// XMLID is the stable 31-bit hash of Name.
	XMLID int32
	Name  string

	FoundedTurn        *int32
	FounderPlayerXMLID *int32
	HeadCharacterXMLID *int32
	HolyCityXMLID      *int32
}

type Tribe struct {
	// XMLID is the stable 31-bit hash of IDString.
	XMLID    int32
	IDString string

	LeaderCharacterXMLID *int32
	AlliedPlayerXMLID    *int32
	Religion             *string
}

// DiplomacyEdge is a relation between two parties. Party types are "player",
// "tribe" or "team"; ids are kept as strings since tribe parties are named.
type DiplomacyEdge struct {
	Entity1Type string
	Entity1ID   string
	Entity2Type string
	Entity2ID   string
	Relation    string
}

// PlayerUnitsProduced aggregates units built by a player over the whole game.
type PlayerUnitsProduced struct {
	PlayerXMLID int32
	UnitType    string
	Count       int32
}

// CityUnitsProduced aggregates units built in a city over the whole game.
type CityUnitsProduced struct {
	CityXMLID int32
	UnitType  string
	Count     int32
}

type PlayerResource struct {
	PlayerXMLID int32
	Resource    string
	Amount      int32
}

type TechProgress struct {
	PlayerXMLID int32
	Tech        string
	Progress    int32
}

type TechCompleted struct {
	PlayerXMLID int32
	Tech        string
	Count       int32
}

type TechState struct {
	PlayerXMLID int32
	Tech        string
	State       string
}

type CouncilSeat struct {
	PlayerXMLID    int32
	Position       string
	CharacterXMLID int32
}

type Law struct {
	PlayerXMLID int32
	LawClass    string
	Law         string
}

type Goal struct {
	PlayerXMLID          int32
	GoalID               int32
	Goal                 string
	StartedTurn          int32
	MaxTurns             *int32
	Finished             bool
	LeaderCharacterXMLID *int32
}

// CharacterStat is one rating or stat line for a character.
type CharacterStat struct {
	CharacterXMLID int32
	Name           string
	Value          int32
}

type CharacterTrait struct {
	CharacterXMLID int32
	Trait          string
	AcquiredTurn   int32
}

type CharacterRelationship struct {
	CharacterXMLID        int32
	RelatedCharacterXMLID int32
	Relationship          string
	Value                 *int32
	StartedTurn           *int32
}

type CharacterMarriage struct {
	CharacterXMLID int32
	SpouseXMLID    int32
	MarriedTurn    *int32
}

type QueueItem struct {
	CityXMLID int32
	Position  int32
	Build     string
	ItemType  string
	Progress  int32
	IsRepeat  bool
}

type ProjectCompleted struct {
	CityXMLID int32
	Project   string
	Count     int32
}

type CityYield struct {
	CityXMLID int32
	Yield     string
	Progress  int32
}

type CityReligion struct {
	CityXMLID int32
	Religion  string
}

// CityCulture is per-team culture state for a city, merged across the
// TeamCulture and TeamHappinessLevel (or legacy TeamDiscontentLevel)
// containers.
type CityCulture struct {
	CityXMLID      int32
	Team           int32
	CultureLevel   int32
	HappinessLevel int32
}

// CityAgent is a foreign agent placed in a city by an enemy player.
type CityAgent struct {
	CityXMLID        int32
	EnemyPlayerXMLID int32
	PlacedTurn       *int32
	CharacterXMLID   *int32
	TileXMLID        *int32
}

type CityLuxury struct {
	CityXMLID    int32
	Resource     string
	AcquiredTurn int32
}

// TileVisibility records per-team reveal state for a tile.
type TileVisibility struct {
	TileXMLID          int32
	Team               int32
	RevealedTurn       int32
	VisibleOwnerXMLID  *int32
}

// TileChange is one terrain or vegetation transition at a turn.
type TileChange struct {
	TileXMLID  int32
	Turn       int32
	ChangeType string
	NewValue   string
}

// StoryEvent is one narrative event occurrence.
type StoryEvent struct {
	EventType      string
	PlayerXMLID    int32
	Turn           int32
	CharacterXMLID *int32
	CityXMLID      *int32
}

type EventLog struct {
	PlayerXMLID int32
	LogType     string
	Turn        int32
	Description *string
	Data1       *string
	Data2       *string
	Data3       *string
}

type Memory struct {
	PlayerXMLID int32
	MemoryType  string
	Turn        int32
	SubjectType *string
	SubjectID   *string
}

// TurnValue is one sparse time-series sample.
type TurnValue struct {
	Turn  int32
	Value int32
}

// PlayerSeriesPoint is a flat per-player series sample.
type PlayerSeriesPoint struct {
	PlayerXMLID int32
	Turn        int32
	Value       int32
}

// CategorySeriesPoint is a per-player, per-category series sample (family
// opinion, religion opinion, yield rates, yield totals).
type CategorySeriesPoint struct {
	PlayerXMLID int32
	Category    string
	Turn        int32
	Value       int32
}

// PriceSeriesPoint is a game-level per-yield price sample.
type PriceSeriesPoint struct {
	Yield string
	Turn  int32
	Price int32
}

// Timeseries bundles the eight sparse series of a save.
type Timeseries struct {
	Points          []PlayerSeriesPoint
	MilitaryPower   []PlayerSeriesPoint
	Legitimacy      []PlayerSeriesPoint
	FamilyOpinion   []CategorySeriesPoint
	ReligionOpinion []CategorySeriesPoint
	YieldRates      []CategorySeriesPoint
	YieldTotals     []CategorySeriesPoint
	YieldPrices     []PriceSeriesPoint
}
