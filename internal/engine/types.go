package engine

import "fmt"

// Element is one of the five magic elements. Ivory and White appear only in
// dragon compositions.
type Element string

const (
	Air   Element = "air"
	Death Element = "death"
	Earth Element = "earth"
	Fire  Element = "fire"
	Water Element = "water"
	Ivory Element = "ivory"
	White Element = "white"
)

// ResultType is a countable roll outcome.
type ResultType string

const (
	Maneuver ResultType = "maneuver"
	Melee    ResultType = "melee"
	Missile  ResultType = "missile"
	Magic    ResultType = "magic"
	Save     ResultType = "save"
)

// ResultTypes lists every countable type in canonical order.
var ResultTypes = []ResultType{Maneuver, Melee, Missile, Magic, Save}

// ParseResultType converts user input into a ResultType.
func ParseResultType(s string) (ResultType, error) {
	for _, rt := range ResultTypes {
		if s == string(rt) {
			return rt, nil
		}
	}
	return "", &ValidationError{Reason: fmt.Sprintf("unknown result type %q", s)}
}

// IconKind is the face kind printed on a unit die.
type IconKind string

const (
	IconID       IconKind = "id"
	IconManeuver IconKind = "maneuver"
	IconMelee    IconKind = "melee"
	IconMissile  IconKind = "missile"
	IconMagic    IconKind = "magic"
	IconSave     IconKind = "save"
	IconSAI      IconKind = "sai"
)

// actionIcon maps plain action icons to the result type they produce.
func actionIcon(k IconKind) (ResultType, bool) {
	switch k {
	case IconManeuver:
		return Maneuver, true
	case IconMelee:
		return Melee, true
	case IconMissile:
		return Missile, true
	case IconMagic:
		return Magic, true
	case IconSave:
		return Save, true
	}
	return "", false
}

// ActionKind is the action sub-step choice of a march.
type ActionKind string

const (
	ActionMelee   ActionKind = "melee"
	ActionMissile ActionKind = "missile"
	ActionMagic   ActionKind = "magic"
	ActionNone    ActionKind = "none"
)

// ParseActionKind converts user input into an ActionKind.
func ParseActionKind(s string) (ActionKind, error) {
	switch ActionKind(s) {
	case ActionMelee, ActionMissile, ActionMagic, ActionNone:
		return ActionKind(s), nil
	}
	return "", &ValidationError{Reason: fmt.Sprintf("unknown action kind %q", s)}
}

// result returns the result type an action's attack roll counts.
func (a ActionKind) result() ResultType {
	switch a {
	case ActionMelee:
		return Melee
	case ActionMissile:
		return Missile
	case ActionMagic:
		return Magic
	}
	return ""
}

// RollPurpose identifies what a submitted roll is counted for. A combination
// purpose counts more than one result type at once.
type RollPurpose struct {
	Types []ResultType `json:"types"`
}

// PurposeOf builds a purpose from the given counted types.
func PurposeOf(types ...ResultType) RollPurpose {
	return RollPurpose{Types: types}
}

// Combination reports whether more than one result type is being counted.
func (p RollPurpose) Combination() bool { return len(p.Types) > 1 }

func (p RollPurpose) counts(rt ResultType) bool {
	for _, t := range p.Types {
		if t == rt {
			return true
		}
	}
	return false
}

func (p RollPurpose) String() string {
	if len(p.Types) == 1 {
		return string(p.Types[0])
	}
	s := ""
	for i, t := range p.Types {
		if i > 0 {
			s += "+"
		}
		s += string(t)
	}
	return s
}

// ZoneKind names the five unit custody areas.
type ZoneKind string

const (
	ZoneArmy      ZoneKind = "army"
	ZoneReserve   ZoneKind = "reserve"
	ZoneDUA       ZoneKind = "dua"
	ZoneBUA       ZoneKind = "bua"
	ZoneSummoning ZoneKind = "summoning"
)

// Zone pinpoints the single place a unit currently is. Player is always set,
// Army only when Kind is ZoneArmy.
type Zone struct {
	Kind   ZoneKind `json:"kind"`
	Player string   `json:"player"`
	Army   string   `json:"army,omitempty"`
}

// ArmyZone is the zone of an army at a terrain.
func ArmyZone(player, army string) Zone {
	return Zone{Kind: ZoneArmy, Player: player, Army: army}
}

// PlayerZone is one of a player's holding areas (reserve, DUA, BUA, pool).
func PlayerZone(kind ZoneKind, player string) Zone {
	return Zone{Kind: kind, Player: player}
}

func (z Zone) String() string {
	if z.Kind == ZoneArmy {
		return fmt.Sprintf("%s/%s", z.Player, z.Army)
	}
	return fmt.Sprintf("%s %s", z.Player, z.Kind)
}

// DragonKind is the composition class used by the targeting matrix.
type DragonKind string

const (
	DragonElemental   DragonKind = "elemental"
	DragonHybrid      DragonKind = "hybrid"
	DragonIvory       DragonKind = "ivory"
	DragonIvoryHybrid DragonKind = "ivory_hybrid"
	DragonWhite       DragonKind = "white"
)

// DragonFace is a player-reported dragon die result.
type DragonFace string

const (
	FaceJaws     DragonFace = "jaws"
	FaceClaw     DragonFace = "claw"
	FaceTail     DragonFace = "tail"
	FaceWing     DragonFace = "wing"
	FaceBelly    DragonFace = "belly"
	FaceBreath   DragonFace = "breath"
	FaceTreasure DragonFace = "treasure"
)

// ParseDragonFace converts user input into a DragonFace.
func ParseDragonFace(s string) (DragonFace, error) {
	switch DragonFace(s) {
	case FaceJaws, FaceClaw, FaceTail, FaceWing, FaceBelly, FaceBreath, FaceTreasure:
		return DragonFace(s), nil
	}
	return "", &ValidationError{Reason: fmt.Sprintf("unknown dragon face %q", s)}
}

// Phase is a sequencer state. March phases split into a maneuver and an
// action sub-step; reserves split into reinforce and retreat.
type Phase string

const (
	PhaseExpireEffects       Phase = "expire_effects"
	PhaseEighthFace          Phase = "eighth_face"
	PhaseDragonAttack        Phase = "dragon_attack"
	PhaseSpeciesAbilities    Phase = "species_abilities"
	PhaseFirstMarchManeuver  Phase = "first_march_maneuver"
	PhaseFirstMarchAction    Phase = "first_march_action"
	PhaseSecondMarchManeuver Phase = "second_march_maneuver"
	PhaseSecondMarchAction   Phase = "second_march_action"
	PhaseReservesReinforce   Phase = "reserves_reinforce"
	PhaseReservesRetreat     Phase = "reserves_retreat"
)

// phaseOrder is the fixed per-turn cycle.
var phaseOrder = []Phase{
	PhaseExpireEffects,
	PhaseEighthFace,
	PhaseDragonAttack,
	PhaseSpeciesAbilities,
	PhaseFirstMarchManeuver,
	PhaseFirstMarchAction,
	PhaseSecondMarchManeuver,
	PhaseSecondMarchAction,
	PhaseReservesReinforce,
	PhaseReservesRetreat,
}

// marchOf reports which march a phase belongs to: 1, 2, or 0 for neither.
func marchOf(p Phase) int {
	switch p {
	case PhaseFirstMarchManeuver, PhaseFirstMarchAction:
		return 1
	case PhaseSecondMarchManeuver, PhaseSecondMarchAction:
		return 2
	}
	return 0
}

// TargetKind scopes an effect to a whole army or a single unit.
type TargetKind string

const (
	TargetArmy TargetKind = "army"
	TargetUnit TargetKind = "unit"
)

// EffectTarget is the (kind, id) pair an effect is attached to. Army targets
// use the army zone string ("player/army"); unit targets use the unit id.
type EffectTarget struct {
	Kind TargetKind `json:"kind"`
	ID   string     `json:"id"`
}
