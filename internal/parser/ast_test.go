package parser_test

import (
	"testing"

	"github.com/suderio/dragondice/internal/parser"
)

func TestParseManeuverWithCounter(t *testing.T) {
	p := parser.Build()

	cmd, err := p.ParseString("", "maneuver by: p1 army: p1/home faces: u1=maneuver,u2=id counter: e1=maneuver")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if cmd.Maneuver == nil {
		t.Fatalf("Expected ManeuverCmd, got nil")
	}

	if cmd.Maneuver.Player != "p1" {
		t.Errorf("Expected player p1, got %s", cmd.Maneuver.Player)
	}

	if cmd.Maneuver.Army != "p1/home" {
		t.Errorf("Expected army p1/home, got %s", cmd.Maneuver.Army)
	}

	if len(cmd.Maneuver.Faces) != 2 {
		t.Fatalf("Expected 2 faces, got %d", len(cmd.Maneuver.Faces))
	}

	if cmd.Maneuver.Faces[0].Unit != "u1" || cmd.Maneuver.Faces[0].Icon != "maneuver" {
		t.Errorf("Unexpected first face: %+v", cmd.Maneuver.Faces[0])
	}

	if len(cmd.Maneuver.Counter) != 1 {
		t.Fatalf("Expected 1 counter face, got %d", len(cmd.Maneuver.Counter))
	}
}

func TestParseActionWithTarget(t *testing.T) {
	p := parser.Build()

	cmd, err := p.ParseString("", "action melee by: p1 army: p1/home target: p2/home")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if cmd.Action == nil {
		t.Fatalf("Expected ActionCmd, got nil")
	}

	if cmd.Action.Kind != "melee" {
		t.Errorf("Expected kind melee, got %s", cmd.Action.Kind)
	}

	if cmd.Action.Target != "p2/home" {
		t.Errorf("Expected target p2/home, got %s", cmd.Action.Target)
	}
}

func TestParseRollWithChoice(t *testing.T) {
	p := parser.Build()

	cmd, err := p.ParseString("", "roll faces: u1=fly:maneuver,u2=melee")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if cmd.Roll == nil {
		t.Fatalf("Expected RollCmd, got nil")
	}

	if len(cmd.Roll.Faces) != 2 {
		t.Fatalf("Expected 2 faces, got %d", len(cmd.Roll.Faces))
	}

	if cmd.Roll.Faces[0].Icon != "fly" || cmd.Roll.Faces[0].Choice != "maneuver" {
		t.Errorf("Unexpected choice face: %+v", cmd.Roll.Faces[0])
	}

	if cmd.Roll.Faces[1].Choice != "" {
		t.Errorf("Expected empty choice, got %s", cmd.Roll.Faces[1].Choice)
	}
}

func TestParsePromote(t *testing.T) {
	p := parser.Build()

	t.Run("Pairs", func(t *testing.T) {
		cmd, err := p.ParseString("", "promote pairs: u1=d1,u2=d2")
		if err != nil {
			t.Fatalf("Failed to parse: %v", err)
		}

		if cmd.Promote == nil {
			t.Fatalf("Expected PromoteCmd, got nil")
		}

		if len(cmd.Promote.Pairs) != 2 {
			t.Fatalf("Expected 2 pairs, got %d", len(cmd.Promote.Pairs))
		}

		if cmd.Promote.Pairs[0].Unit != "u1" || cmd.Promote.Pairs[0].Replacement != "d1" {
			t.Errorf("Unexpected pair: %+v", cmd.Promote.Pairs[0])
		}
	})

	t.Run("None", func(t *testing.T) {
		cmd, err := p.ParseString("", "promote none")
		if err != nil {
			t.Fatalf("Failed to parse: %v", err)
		}

		if cmd.Promote == nil || !cmd.Promote.None {
			t.Fatalf("Expected promote none")
		}
	})
}

func TestParseCastWithTargets(t *testing.T) {
	p := parser.Build()

	cmd, err := p.ParseString("", "cast spells: palsy=p2/home,watery_double")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if cmd.Cast == nil {
		t.Fatalf("Expected CastCmd, got nil")
	}

	if len(cmd.Cast.Spells) != 2 {
		t.Fatalf("Expected 2 spells, got %d", len(cmd.Cast.Spells))
	}

	if cmd.Cast.Spells[0].Spell != "palsy" || cmd.Cast.Spells[0].Target != "p2/home" {
		t.Errorf("Unexpected spell arg: %+v", cmd.Cast.Spells[0])
	}

	if cmd.Cast.Spells[1].Target != "" {
		t.Errorf("Expected no target, got %s", cmd.Cast.Spells[1].Target)
	}
}

func TestParseDragonFacesWithRerolls(t *testing.T) {
	p := parser.Build()

	cmd, err := p.ParseString("", "dragon faces: d1=tail,d2=breath rerolls: d1=claw")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if cmd.Dragon == nil {
		t.Fatalf("Expected DragonCmd, got nil")
	}

	if len(cmd.Dragon.Faces) != 2 {
		t.Fatalf("Expected 2 faces, got %d", len(cmd.Dragon.Faces))
	}

	if len(cmd.Dragon.Rerolls) != 1 {
		t.Fatalf("Expected 1 reroll, got %d", len(cmd.Dragon.Rerolls))
	}

	if cmd.Dragon.Rerolls[0].Key != "d1" || cmd.Dragon.Rerolls[0].Value != "claw" {
		t.Errorf("Unexpected reroll: %+v", cmd.Dragon.Rerolls[0])
	}
}

func TestParseDragonDesignate(t *testing.T) {
	p := parser.Build()

	cmd, err := p.ParseString("", "dragon designate: d1=d2")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if cmd.Dragon == nil || len(cmd.Dragon.Designate) != 1 {
		t.Fatalf("Expected 1 designation, got %+v", cmd.Dragon)
	}
}

func TestParseEighth(t *testing.T) {
	p := parser.Build()

	t.Run("Use", func(t *testing.T) {
		cmd, err := p.ParseString("", "eighth use: highlands unit: u9 target: d4")
		if err != nil {
			t.Fatalf("Failed to parse: %v", err)
		}

		if cmd.Eighth == nil {
			t.Fatalf("Expected EighthCmd, got nil")
		}

		if cmd.Eighth.Terrain != "highlands" || cmd.Eighth.Unit != "u9" || cmd.Eighth.Target != "d4" {
			t.Errorf("Unexpected eighth cmd: %+v", cmd.Eighth)
		}
	})

	t.Run("Pass", func(t *testing.T) {
		cmd, err := p.ParseString("", "eighth pass")
		if err != nil {
			t.Fatalf("Failed to parse: %v", err)
		}

		if cmd.Eighth == nil || !cmd.Eighth.Pass {
			t.Fatalf("Expected eighth pass")
		}
	})
}

func TestParseAllocate(t *testing.T) {
	p := parser.Build()

	cmd, err := p.ParseString("", "allocate damage: d1=4,d2=2")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if cmd.Allocate == nil {
		t.Fatalf("Expected AllocateCmd, got nil")
	}

	if len(cmd.Allocate.Damage) != 2 {
		t.Fatalf("Expected 2 allocations, got %d", len(cmd.Allocate.Damage))
	}

	if cmd.Allocate.Damage[0].Key != "d1" || cmd.Allocate.Damage[0].Points != 4 {
		t.Errorf("Unexpected allocation: %+v", cmd.Allocate.Damage[0])
	}
}

func TestParsePhaseDone(t *testing.T) {
	p := parser.Build()

	cmd, err := p.ParseString("", "phase done")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if cmd.Phase == nil {
		t.Fatalf("Expected PhaseCmd, got nil")
	}
}

func TestMapErrorGuidance(t *testing.T) {
	err := parser.MapError("maneuver by p1", nil)
	if err == nil {
		t.Fatalf("Expected guidance error")
	}
}
