package engine

// PromotionPair names a unit in play and the one-rank-larger unit that
// replaces it.
type PromotionPair struct {
	Unit        string `json:"unit"`
	Replacement string `json:"replacement"`
}

// stagePromotions validates a promotion batch and stages the exchanges.
// Eligibility is judged against the batch view before any exchange is
// staged, so a unit swapped out by one pair cannot be re-matched by
// another, and a replacement can serve only once.
func (g *Game) stagePromotions(batch *Batch, army *Army, pairs []PromotionPair) error {
	usedUnit := make(map[string]bool, len(pairs))
	usedRepl := make(map[string]bool, len(pairs))
	for _, pair := range pairs {
		if usedUnit[pair.Unit] {
			return validationErrf("unit %s promoted twice", pair.Unit)
		}
		if usedRepl[pair.Replacement] {
			return validationErrf("replacement %s used twice", pair.Replacement)
		}
		usedUnit[pair.Unit] = true
		usedRepl[pair.Replacement] = true
		if err := g.checkPromotion(batch, army, pair); err != nil {
			return err
		}
	}
	for _, pair := range pairs {
		if err := batch.Promote(pair.Unit, pair.Replacement); err != nil {
			return err
		}
	}
	return nil
}

// checkPromotion verifies one pair: the unit stands in the promoting army,
// the replacement waits in the species' pool, and it is the same species
// exactly one health rank larger.
func (g *Game) checkPromotion(batch *Batch, army *Army, pair PromotionPair) error {
	if army == nil {
		return validationErrf("no army is promoting")
	}
	zone, err := batch.zoneOf(pair.Unit)
	if err != nil {
		return err
	}
	if zone.Kind != ZoneArmy || zone.Player != army.Player || zone.Army != army.Name {
		return validationErrf("unit %s is not in army %s", pair.Unit, army.ID())
	}
	u, err := g.state.Zones.Unit(pair.Unit)
	if err != nil {
		return err
	}
	r, err := g.state.Zones.Unit(pair.Replacement)
	if err != nil {
		return err
	}
	pool, err := g.promotionPool(u.Species)
	if err != nil {
		return err
	}
	rZone, err := batch.zoneOf(pair.Replacement)
	if err != nil {
		return err
	}
	if rZone.Kind != pool || rZone.Player != u.Player {
		return validationErrf("replacement %s is not in %s's %s", pair.Replacement, u.Player, pool)
	}
	if r.Species != u.Species {
		return ruleErrf("%s and %s are different species", pair.Unit, pair.Replacement)
	}
	if r.Health != u.Health+1 {
		return ruleErrf("%s (health %d) is not one rank above %s (health %d)",
			pair.Replacement, r.Health, pair.Unit, u.Health)
	}
	return nil
}

// promotionPool is where a species' replacements wait: the DUA, or the
// Summoning Pool for dragonkin.
func (g *Game) promotionPool(species string) (ZoneKind, error) {
	sp, err := g.defs.Species(species)
	if err != nil {
		return "", err
	}
	if sp.Dragonkin {
		return ZoneSummoning, nil
	}
	return ZoneDUA, nil
}
