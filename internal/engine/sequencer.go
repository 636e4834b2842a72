package engine

// Sequencer is the turn phase state machine. It never advances on its own;
// every transition is an explicit signal relayed by the Game facade. The
// fields are exported for snapshots only.
type Sequencer struct {
	Turn        int             `json:"turn"`
	PlayerIdx   int             `json:"player_idx"`
	PhaseIdx    int             `json:"phase_idx"`
	MarchArmies map[int]string  `json:"march_armies,omitempty"`
	Acted       map[string]bool `json:"acted,omitempty"`
	ReserveCast bool            `json:"reserve_cast,omitempty"`
	EighthUsed  map[string]bool `json:"eighth_used,omitempty"`
}

// NewSequencer starts at the first player's ExpireEffects phase of turn 1.
func NewSequencer() *Sequencer {
	return &Sequencer{
		Turn:        1,
		MarchArmies: make(map[int]string),
		Acted:       make(map[string]bool),
		EighthUsed:  make(map[string]bool),
	}
}

// Phase returns the current phase.
func (s *Sequencer) Phase() Phase { return phaseOrder[s.PhaseIdx] }

// Player returns the turn player's name.
func (s *Sequencer) Player(players []string) string { return players[s.PlayerIdx] }

// next moves to the following phase, rotating to the next player's turn
// after the retreat step. It reports whether a new turn began.
func (s *Sequencer) next(playerCount int) bool {
	s.PhaseIdx++
	if s.PhaseIdx < len(phaseOrder) {
		return false
	}
	s.PhaseIdx = 0
	s.PlayerIdx = (s.PlayerIdx + 1) % playerCount
	s.Turn++
	s.MarchArmies = make(map[int]string)
	s.Acted = make(map[string]bool)
	s.ReserveCast = false
	s.EighthUsed = make(map[string]bool)
	return true
}

// march returns the current march number, or 0 outside the march phases.
func (s *Sequencer) march() int { return marchOf(s.Phase()) }

// marchArmy returns the army already bound to the current march, if any.
func (s *Sequencer) marchArmy() (string, bool) {
	id, ok := s.MarchArmies[s.march()]
	return id, ok
}

// bindMarchArmy fixes the army for the current march. Exactly one army acts
// per march; a second binding to a different army is a protocol violation.
func (s *Sequencer) bindMarchArmy(armyID string) error {
	m := s.march()
	if m == 0 {
		return protocolErrf("no march is in progress during %s", s.Phase())
	}
	if bound, ok := s.MarchArmies[m]; ok && bound != armyID {
		return protocolErrf("army %s is already marching", bound)
	}
	s.MarchArmies[m] = armyID
	return nil
}

// markActed records that the bound march army took its march, at the moment
// the march's action sub-step is left.
func (s *Sequencer) markActed() {
	if id, ok := s.MarchArmies[s.march()]; ok {
		s.Acted[id] = true
	}
}
