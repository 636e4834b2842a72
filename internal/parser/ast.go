package parser

// Decision represents one top-level line of the game protocol. Exactly one
// branch is set.
type Decision struct {
	Phase     *PhaseCmd     `parser:"( @@"`
	Skip      *SkipCmd      `parser:"| @@"`
	Maneuver  *ManeuverCmd  `parser:"| @@"`
	Turn      *TurnCmd      `parser:"| @@"`
	Action    *ActionCmd    `parser:"| @@"`
	Roll      *RollCmd      `parser:"| @@"`
	Saves     *SavesCmd     `parser:"| @@"`
	Kills     *KillsCmd     `parser:"| @@"`
	Promote   *PromoteCmd   `parser:"| @@"`
	Cast      *CastCmd      `parser:"| @@"`
	Reinforce *ReinforceCmd `parser:"| @@"`
	Retreat   *RetreatCmd   `parser:"| @@"`
	Eighth    *EighthCmd    `parser:"| @@"`
	Ability   *AbilityCmd   `parser:"| @@"`
	Dragon    *DragonCmd    `parser:"| @@"`
	Response  *ResponseCmd  `parser:"| @@"`
	Allocate  *AllocateCmd  `parser:"| @@"`
	Abort     *AbortCmd     `parser:"| @@"`
	State     *StateCmd     `parser:"| @@"`
	Save      *SaveCmd      `parser:"| @@"`
	Help      *HelpCmd      `parser:"| @@ )"`
}

// FacePair is one reported die: unit=icon, with an optional :choice reading
// for choice icons and ID faces on combination rolls.
type FacePair struct {
	Unit   string `parser:"@Ident \"=\""`
	Icon   string `parser:"@Ident"`
	Choice string `parser:"( \":\" @Ident )?"`
}

// PromotePair exchanges an army unit for a pool replacement.
type PromotePair struct {
	Unit        string `parser:"@Ident \"=\""`
	Replacement string `parser:"@Ident"`
}

// Assignment is a generic left=right pair (dragon designations and faces).
type Assignment struct {
	Key   string `parser:"@Ident \"=\""`
	Value string `parser:"@Ident"`
}

// PointsPair allocates an integer amount to a key (dragon damage).
type PointsPair struct {
	Key    string `parser:"@Ident \"=\""`
	Points int    `parser:"@Int"`
}

// PhaseCmd signals that the current phase is complete.
type PhaseCmd struct {
	Keyword string `parser:"@\"phase\" \"done\""`
}

// SkipCmd declines the current maneuver step.
type SkipCmd struct {
	Keyword string `parser:"@\"skip\" \"maneuver\""`
}

// ManeuverCmd reports a maneuver roll, with the counter-roll inline when the
// maneuver is contested.
type ManeuverCmd struct {
	Keyword string      `parser:"@\"maneuver\""`
	Player  string      `parser:"\"by\" \":\" @Ident"`
	Army    string      `parser:"\"army\" \":\" @Ident"`
	Faces   []*FacePair `parser:"\"faces\" \":\" @@ ( \",\" @@ )*"`
	Counter []*FacePair `parser:"( \"counter\" \":\" @@ ( \",\" @@ )* )?"`
}

// TurnCmd spends a won maneuver to turn the terrain die.
type TurnCmd struct {
	Keyword string `parser:"@\"turn\""`
	Terrain string `parser:"\"terrain\" \":\" @Ident"`
	Dir     string `parser:"\"dir\" \":\" @(\"up\"|\"down\")"`
}

// ActionCmd opens a melee, missile or magic action.
type ActionCmd struct {
	Keyword string `parser:"@\"action\""`
	Kind    string `parser:"@(\"melee\"|\"missile\"|\"magic\")"`
	Player  string `parser:"\"by\" \":\" @Ident"`
	Army    string `parser:"\"army\" \":\" @Ident"`
	Target  string `parser:"( \"target\" \":\" @Ident )?"`
}

// RollCmd reports the acting group's attack roll.
type RollCmd struct {
	Keyword string      `parser:"@\"roll\""`
	Faces   []*FacePair `parser:"\"faces\" \":\" @@ ( \",\" @@ )*"`
}

// SavesCmd reports the defending group's save roll.
type SavesCmd struct {
	Keyword string      `parser:"@\"saves\""`
	Faces   []*FacePair `parser:"\"faces\" \":\" @@ ( \",\" @@ )*"`
}

// KillsCmd selects the casualties covering the net damage.
type KillsCmd struct {
	Keyword string   `parser:"@\"kills\""`
	Units   []string `parser:"\"units\" \":\" @Ident ( \",\" @Ident )*"`
}

// PromoteCmd exchanges killed-for ranks, or declines with none.
type PromoteCmd struct {
	Keyword string         `parser:"@\"promote\""`
	None    bool           `parser:"( @\"none\""`
	Pairs   []*PromotePair `parser:"| \"pairs\" \":\" @@ ( \",\" @@ )* )"`
}

// CastCmd spends a magic roll on spells; each spell may carry an =target.
type CastCmd struct {
	Keyword string      `parser:"@\"cast\""`
	None    bool        `parser:"( @\"none\""`
	Spells  []*SpellArg `parser:"| \"spells\" \":\" @@ ( \",\" @@ )* )"`
}

// SpellArg names one casting and its optional concrete target.
type SpellArg struct {
	Spell  string `parser:"@Ident"`
	Target string `parser:"( \"=\" @Ident )?"`
}

// ReinforceCmd moves reserve units to a terrain army.
type ReinforceCmd struct {
	Keyword string   `parser:"@\"reinforce\""`
	Units   []string `parser:"\"units\" \":\" @Ident ( \",\" @Ident )*"`
	To      string   `parser:"\"to\" \":\" @Ident"`
}

// RetreatCmd moves army units back to the reserve.
type RetreatCmd struct {
	Keyword string   `parser:"@\"retreat\""`
	Units   []string `parser:"\"units\" \":\" @Ident ( \",\" @Ident )*"`
}

// EighthCmd exercises a controlled eighth face, or passes on them all.
type EighthCmd struct {
	Keyword string `parser:"@\"eighth\""`
	Pass    bool   `parser:"( @\"pass\""`
	Terrain string `parser:"| \"use\" \":\" @Ident"`
	Unit    string `parser:"( \"unit\" \":\" @Ident )?"`
	Target  string `parser:"( \"target\" \":\" @Ident )? )"`
}

// AbilityCmd applies a species-phase ability.
type AbilityCmd struct {
	Keyword string `parser:"@\"ability\""`
	Species string `parser:"\"species\" \":\" @Ident"`
	Name    string `parser:"\"use\" \":\" @Ident"`
	Army    string `parser:"\"army\" \":\" @Ident"`
	Target  string `parser:"( \"target\" \":\" @Ident )?"`
}

// DragonCmd resolves a dragon attack step: target designations, or the
// rolled faces with their forced re-roll chains.
type DragonCmd struct {
	Keyword   string        `parser:"@\"dragon\""`
	Designate []*Assignment `parser:"( \"designate\" \":\" @@ ( \",\" @@ )*"`
	Faces     []*Assignment `parser:"| \"faces\" \":\" @@ ( \",\" @@ )*"`
	Rerolls   []*Assignment `parser:"( \"rerolls\" \":\" @@ ( \",\" @@ )* )? )"`
}

// ResponseCmd reports the combined melee, missile and save roll against a
// dragon attack.
type ResponseCmd struct {
	Keyword string      `parser:"@\"response\""`
	Faces   []*FacePair `parser:"\"faces\" \":\" @@ ( \",\" @@ )*"`
}

// AllocateCmd spreads the response damage over the attacking dragons.
type AllocateCmd struct {
	Keyword string        `parser:"@\"allocate\""`
	Damage  []*PointsPair `parser:"\"damage\" \":\" @@ ( \",\" @@ )*"`
}

// AbortCmd abandons the in-flight action without committing anything.
type AbortCmd struct {
	Keyword string `parser:"@\"abort\""`
}

// StateCmd prints the current game state.
type StateCmd struct {
	Keyword string `parser:"@\"state\""`
}

// SaveCmd persists a snapshot through the configured store.
type SaveCmd struct {
	Keyword string `parser:"@\"save\""`
}

// HelpCmd prints usage, optionally for one command.
type HelpCmd struct {
	Keyword string `parser:"@\"help\""`
	Topic   string `parser:"@Ident?"`
}
