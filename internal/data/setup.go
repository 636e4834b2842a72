package data

// Setup is the game bootstrap file: who plays, which terrains are in play,
// where every unit and dragon starts. The engine validates every id against
// the catalog when it builds the initial state.
type Setup struct {
	Name     string         `yaml:"name,omitempty"` // game id; generated when empty
	Players  []SetupPlayer  `yaml:"players"`
	Terrains []SetupTerrain `yaml:"terrains"`
	Dragons  []SetupDragon  `yaml:"dragons"`
}

// SetupPlayer declares a player and their starting armies and pools.
type SetupPlayer struct {
	Name      string      `yaml:"name"`
	Armies    []SetupArmy `yaml:"armies"`
	Reserve   []SetupUnit `yaml:"reserve,omitempty"`
	DUA       []SetupUnit `yaml:"dua,omitempty"`
	Summoning []SetupUnit `yaml:"summoning,omitempty"`
}

// SetupArmy places an army at a terrain.
type SetupArmy struct {
	Name    string      `yaml:"name"` // home|campaign|horde or custom
	Terrain string      `yaml:"terrain"`
	Units   []SetupUnit `yaml:"units"`
}

// SetupUnit instantiates a unit definition under a game-unique id.
type SetupUnit struct {
	ID   string `yaml:"id"`
	Unit string `yaml:"unit"` // unit definition id
}

// SetupTerrain places a terrain die at a starting face.
type SetupTerrain struct {
	ID      string `yaml:"id"`
	Terrain string `yaml:"terrain"` // terrain definition id
	Face    int    `yaml:"face"`
}

// SetupDragon places a dragon, either at a terrain or in its summoner's
// Summoning Pool when Terrain is empty.
type SetupDragon struct {
	ID       string `yaml:"id"`
	Dragon   string `yaml:"dragon"` // dragon definition id
	Summoner string `yaml:"summoner"`
	Terrain  string `yaml:"terrain,omitempty"`
}
