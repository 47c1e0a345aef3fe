package cost

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDefaultDatabase(t *testing.T) {
	db := Default()

	t.Run("known block lookup", func(t *testing.T) {
		rec, ok := db.Get("LargeBlockArmorBlock")
		if !ok {
			t.Fatal("expected record")
		}
		if rec.Category != "armor" || rec.Mass != 2520.0 || rec.Components["SteelPlate"] != 25 {
			t.Errorf("unexpected record: %+v", rec)
		}
	})

	t.Run("known ids sorted", func(t *testing.T) {
		ids := db.KnownBlockIDs()
		if len(ids) == 0 {
			t.Fatal("expected block ids")
		}
		for i := 1; i < len(ids); i++ {
			if ids[i-1] >= ids[i] {
				t.Fatalf("ids not sorted at %d: %s >= %s", i, ids[i-1], ids[i])
			}
		}
	})
}

func TestInfer(t *testing.T) {
	tests := []struct {
		subtype  string
		category string
		steel    int
		pcu      int
		mass     float64
	}{
		{"LargeBlockArmorRamp", "armor", 25, 1, 2520.0},
		{"LargeHeavyBlockArmorRamp", "armor", 150, 1, 15100.0},
		{"SmallBlockArmorRamp", "armor", 1, 0, 10.0},
		{"SmallHeavyBlockArmorRamp", "armor", 5, 0, 30.0},
	}
	for _, tt := range tests {
		t.Run(tt.subtype, func(t *testing.T) {
			rec, ok := Infer(tt.subtype)
			if !ok {
				t.Fatal("expected inferred record")
			}
			if rec.Category != tt.category {
				t.Errorf("category = %q", rec.Category)
			}
			if rec.Components["SteelPlate"] != tt.steel {
				t.Errorf("steel = %d, want %d", rec.Components["SteelPlate"], tt.steel)
			}
			if rec.PCU != tt.pcu {
				t.Errorf("pcu = %d, want %d", rec.PCU, tt.pcu)
			}
			if rec.Mass != tt.mass {
				t.Errorf("mass = %v, want %v", rec.Mass, tt.mass)
			}
		})
	}

	t.Run("thruster bill", func(t *testing.T) {
		rec, ok := Infer("ModdedMegaThruster")
		if !ok || rec.Category != "thrusters" || rec.Components["Thrust"] != 10 {
			t.Fatalf("unexpected: %+v ok=%v", rec, ok)
		}
	})

	t.Run("reactor bill", func(t *testing.T) {
		rec, ok := Infer("CompactReactorMk2")
		if !ok || rec.Category != "power" || rec.Components["Reactor"] != 10 {
			t.Fatalf("unexpected: %+v ok=%v", rec, ok)
		}
	})

	t.Run("no pattern match yields no record", func(t *testing.T) {
		rec, ok := Infer("MysteryGadget")
		if ok {
			t.Fatal("expected no record")
		}
		if rec.PCU != 0 || rec.Mass != 0 {
			t.Errorf("no-record result should be zero-cost: %+v", rec)
		}
	})
}

func TestCategoryFor(t *testing.T) {
	db := Default()
	tests := []struct {
		subtype, want string
	}{
		{"LargeBlockCockpit", "cockpit"},
		{"UnknownArmorThing", "armor"},
		{"MysteryTurretXL", "weapons"},
		{"SomeGatlingVariant", "weapons"},
		{"MysteryGadget", "utility"},
	}
	for _, tt := range tests {
		if got := db.CategoryFor(tt.subtype); got != tt.want {
			t.Errorf("CategoryFor(%s) = %q, want %q", tt.subtype, got, tt.want)
		}
	}
}

func TestConversionPipelines(t *testing.T) {
	db := Default()

	t.Run("components to ingots", func(t *testing.T) {
		ingots := db.ComponentsToIngots(map[string]int{
			"SteelPlate": 10,
			"NotAThing":  99,
		})
		if !almostEqual(ingots["Iron"], 210.0) {
			t.Errorf("Iron = %v, want 210", ingots["Iron"])
		}
		if len(ingots) != 1 {
			t.Errorf("unknown component should contribute nothing: %v", ingots)
		}
	})

	t.Run("ingots to ores", func(t *testing.T) {
		ores := db.IngotsToOres(map[string]float64{
			"Iron":       70.0,
			"Unobtanium": 5.0,
		})
		if !almostEqual(ores["Iron Ore"], 100.0) {
			t.Errorf("Iron Ore = %v, want 100", ores["Iron Ore"])
		}
		if len(ores) != 1 {
			t.Errorf("unknown ingot should contribute nothing: %v", ores)
		}
	})
}

func TestLoadFromFile(t *testing.T) {
	t.Run("json database loads through the same decoder", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "costs.json")
		data := `{"blocks": {"TestBlock": {"category": "utility", "pcu": 5, "mass": 12.5, "components": {"SteelPlate": 3}}}}`
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
		db, err := Load(path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		rec, ok := db.Get("TestBlock")
		if !ok || rec.PCU != 5 || rec.Mass != 12.5 {
			t.Errorf("unexpected record: %+v ok=%v", rec, ok)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("expected error")
		}
	})
}
