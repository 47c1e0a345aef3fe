package analytics

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sebx/internal/blueprint"
	"sebx/internal/cost"
	"sebx/internal/domain"
)

// buildDoc assembles a single-grid blueprint document from block specs.
// Each spec is "Subtype" or "Subtype@Forward" to attach an orientation.
func buildDoc(t *testing.T, gridSize string, specs ...string) *blueprint.Document {
	t.Helper()
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<Definitions xmlns:xsd="http://www.w3.org/2001/XMLSchema" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` + "\n")
	b.WriteString("<ShipBlueprints><ShipBlueprint><CubeGrids><CubeGrid>\n")
	fmt.Fprintf(&b, "<GridSizeEnum>%s</GridSizeEnum>\n<CubeBlocks>\n", gridSize)
	for _, spec := range specs {
		subtype, forward, _ := strings.Cut(spec, "@")
		b.WriteString(`<MyObjectBuilder_CubeBlock xsi:type="MyObjectBuilder_CubeBlock">` + "\n")
		fmt.Fprintf(&b, "<SubtypeName>%s</SubtypeName>\n", subtype)
		if forward != "" {
			fmt.Fprintf(&b, `<BlockOrientation Forward=%q Up="Up" />`+"\n", forward)
		}
		b.WriteString("</MyObjectBuilder_CubeBlock>\n")
	}
	b.WriteString("</CubeBlocks>\n</CubeGrid></CubeGrids></ShipBlueprint></ShipBlueprints>\n</Definitions>\n")

	doc, err := blueprint.Parse(strings.NewReader(b.String()))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func issueCodes(issues []domain.HealthIssue) []string {
	codes := make([]string, 0, len(issues))
	for _, issue := range issues {
		codes = append(codes, issue.Code)
	}
	return codes
}

func hasIssue(issues []domain.HealthIssue, code string) bool {
	for _, issue := range issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestAnalyze(t *testing.T) {
	engine := NewEngine(cost.Default())
	doc := buildDoc(t, "Large",
		"LargeBlockArmorBlock",
		"LargeBlockArmorBlock",
		"LargeBlockCockpit",
		"LargeBlockBatteryBlock",
		"ModdedWidget",
	)
	result := engine.Analyze(doc, "Test Ship")

	t.Run("counts", func(t *testing.T) {
		if result.BlueprintName != "Test Ship" {
			t.Errorf("name = %q", result.BlueprintName)
		}
		if result.BlockCount != 5 {
			t.Errorf("block count = %d, want 5", result.BlockCount)
		}
		if result.BlockCounts["LargeBlockArmorBlock"] != 2 {
			t.Errorf("armor count = %d", result.BlockCounts["LargeBlockArmorBlock"])
		}
		if result.GridSize != "Large" {
			t.Errorf("grid size = %q", result.GridSize)
		}
	})

	t.Run("categories", func(t *testing.T) {
		want := map[string]int{"armor": 2, "cockpit": 1, "power": 1, "unknown": 1}
		for category, count := range want {
			if result.CategoryCounts[category] != count {
				t.Errorf("category %s = %d, want %d", category, result.CategoryCounts[category], count)
			}
		}
	})

	t.Run("unknown subtypes", func(t *testing.T) {
		if len(result.UnknownSubtypes) != 1 || result.UnknownSubtypes[0] != "ModdedWidget" {
			t.Errorf("unknown = %v", result.UnknownSubtypes)
		}
		if !hasIssue(result.HealthIssues, "unknown_blocks") {
			t.Errorf("no unknown_blocks issue in %v", issueCodes(result.HealthIssues))
		}
	})

	t.Run("totals", func(t *testing.T) {
		// 2x armor (pcu 1) + cockpit (100) + battery (25); the unknown
		// block contributes nothing.
		if result.PCUTotal != 127 {
			t.Errorf("pcu = %d, want 127", result.PCUTotal)
		}
		if !almostEqual(result.MassTotal, 2*2520+1180+4845) {
			t.Errorf("mass = %v", result.MassTotal)
		}
		if result.ComponentTotals["SteelPlate"] != 2*25+80 {
			t.Errorf("steel plate = %d", result.ComponentTotals["SteelPlate"])
		}
		if result.ComponentTotals["PowerCell"] != 80 {
			t.Errorf("power cell = %d", result.ComponentTotals["PowerCell"])
		}
	})

	t.Run("material pipeline", func(t *testing.T) {
		// SteelPlate 130 * 21 Iron is the dominant term; just anchor it
		// plus the derived ore volume.
		wantIron := 130*21.0 + 30*3.0 + 50*8.0 + 2*20.0 + 125*0.5 + 10*1.0 + 80*10.0
		if !almostEqual(result.IngotTotals["Iron"], wantIron) {
			t.Errorf("iron ingots = %v, want %v", result.IngotTotals["Iron"], wantIron)
		}
		if !almostEqual(result.OreTotals["Iron Ore"], wantIron/0.7) {
			t.Errorf("iron ore = %v, want %v", result.OreTotals["Iron Ore"], wantIron/0.7)
		}
	})
}

func TestAnalyzeFile(t *testing.T) {
	engine := NewEngine(cost.Default())
	dir := filepath.Join(t.TempDir(), "My Ship")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	doc := buildDoc(t, "Small", "SmallBlockArmorBlock")
	if err := doc.Save(filepath.Join(dir, blueprint.FileName)); err != nil {
		t.Fatal(err)
	}

	result, err := engine.AnalyzeFile(dir)
	if err != nil {
		t.Fatal(err)
	}
	if result.BlueprintName != "My Ship" {
		t.Errorf("name = %q, want folder name", result.BlueprintName)
	}
	if result.BlockCount != 1 {
		t.Errorf("block count = %d", result.BlockCount)
	}

	if _, err := engine.AnalyzeFile(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestCompare(t *testing.T) {
	engine := NewEngine(cost.Default())
	doc := buildDoc(t, "Large",
		"LargeBlockArmorBlock",
		"LargeBlockArmorBlock",
		"LargeBlockCockpit",
	)
	mapping := map[string]string{"LargeBlockArmorBlock": "LargeHeavyBlockArmorBlock"}
	cmp := engine.Compare(doc, "Test Ship", mapping, "heavy")

	if cmp.Mode != "heavy" {
		t.Errorf("mode = %q", cmp.Mode)
	}
	if cmp.BlockChanges["LargeBlockArmorBlock -> LargeHeavyBlockArmorBlock"] != 2 {
		t.Errorf("block changes = %v", cmp.BlockChanges)
	}
	if delta := cmp.ComponentDelta["SteelPlate"]; delta != (150-25)*2 {
		t.Errorf("steel plate delta = %d, want 250", delta)
	}
	if cmp.PCUDelta != 0 {
		t.Errorf("pcu delta = %d, want 0", cmp.PCUDelta)
	}
	if !almostEqual(cmp.MassDelta, (15100-2520)*2) {
		t.Errorf("mass delta = %v", cmp.MassDelta)
	}
	if !almostEqual(cmp.IngotDelta["Iron"], 250*21.0) {
		t.Errorf("iron delta = %v", cmp.IngotDelta["Iron"])
	}

	t.Run("identity mapping is a no-op", func(t *testing.T) {
		cmp := engine.Compare(doc, "Test Ship", nil, "none")
		if len(cmp.BlockChanges) != 0 {
			t.Errorf("block changes = %v", cmp.BlockChanges)
		}
		if cmp.PCUDelta != 0 || cmp.MassDelta != 0 {
			t.Errorf("pcu delta = %d, mass delta = %v", cmp.PCUDelta, cmp.MassDelta)
		}
		for component, delta := range cmp.ComponentDelta {
			if delta != 0 {
				t.Errorf("component %s delta = %d", component, delta)
			}
		}
	})
}

func TestHealthAudit(t *testing.T) {
	engine := NewEngine(cost.Default())

	t.Run("missing control and power", func(t *testing.T) {
		doc := buildDoc(t, "Large", "LargeBlockArmorBlock")
		result := engine.Analyze(doc, "Hull")
		if !hasIssue(result.HealthIssues, "missing_control") {
			t.Errorf("no missing_control in %v", issueCodes(result.HealthIssues))
		}
		if !hasIssue(result.HealthIssues, "missing_power") {
			t.Errorf("no missing_power in %v", issueCodes(result.HealthIssues))
		}
	})

	t.Run("control and power satisfied", func(t *testing.T) {
		doc := buildDoc(t, "Large", "LargeBlockCockpit", "LargeBlockBatteryBlock")
		result := engine.Analyze(doc, "Hull")
		if hasIssue(result.HealthIssues, "missing_control") || hasIssue(result.HealthIssues, "missing_power") {
			t.Errorf("unexpected issues %v", issueCodes(result.HealthIssues))
		}
	})

	t.Run("few thrusters are not audited", func(t *testing.T) {
		doc := buildDoc(t, "Large",
			"LargeBlockCockpit", "LargeBlockBatteryBlock",
			"LargeBlockSmallThrust@Forward",
			"LargeBlockSmallThrust@Forward",
		)
		result := engine.Analyze(doc, "Hull")
		if hasIssue(result.HealthIssues, "thruster_imbalance") {
			t.Errorf("unexpected imbalance issue")
		}
	})

	t.Run("missing thrust axes", func(t *testing.T) {
		specs := []string{"LargeBlockCockpit", "LargeBlockBatteryBlock"}
		for i := 0; i < 6; i++ {
			specs = append(specs, "LargeBlockSmallThrust@Forward")
		}
		doc := buildDoc(t, "Large", specs...)
		result := engine.Analyze(doc, "Hull")
		if !hasIssue(result.HealthIssues, "thruster_imbalance") {
			t.Fatalf("no imbalance issue in %v", issueCodes(result.HealthIssues))
		}
		for _, issue := range result.HealthIssues {
			if issue.Code == "thruster_imbalance" {
				if !strings.Contains(issue.Message, "missing in direction(s)") {
					t.Errorf("message = %q", issue.Message)
				}
				if !strings.Contains(issue.Message, "Backward") {
					t.Errorf("message does not name the missing axis: %q", issue.Message)
				}
			}
		}
	})

	t.Run("one empty axis is named", func(t *testing.T) {
		specs := []string{"LargeBlockCockpit", "LargeBlockBatteryBlock"}
		for _, axis := range []string{"Forward", "Forward", "Backward", "Up", "Down", "Left"} {
			specs = append(specs, "LargeBlockSmallThrust@"+axis)
		}
		doc := buildDoc(t, "Large", specs...)
		result := engine.Analyze(doc, "Hull")
		found := false
		for _, issue := range result.HealthIssues {
			if issue.Code == "thruster_imbalance" {
				found = true
				if !strings.Contains(issue.Message, "Right") {
					t.Errorf("missing axis not named: %q", issue.Message)
				}
				if strings.Contains(issue.Message, "Left") {
					t.Errorf("covered axis reported missing: %q", issue.Message)
				}
			}
		}
		if !found {
			t.Fatalf("no imbalance issue in %v", issueCodes(result.HealthIssues))
		}
	})

	t.Run("skewed distribution", func(t *testing.T) {
		specs := []string{"LargeBlockCockpit", "LargeBlockBatteryBlock"}
		for i := 0; i < 5; i++ {
			specs = append(specs, "LargeBlockSmallThrust@Forward")
		}
		for _, axis := range []string{"Backward", "Up", "Down", "Left", "Right"} {
			specs = append(specs, "LargeBlockSmallThrust@"+axis)
		}
		doc := buildDoc(t, "Large", specs...)
		result := engine.Analyze(doc, "Hull")
		if !hasIssue(result.HealthIssues, "thruster_imbalance") {
			t.Fatalf("no imbalance issue in %v", issueCodes(result.HealthIssues))
		}
	})

	t.Run("balanced thrusters pass", func(t *testing.T) {
		specs := []string{"LargeBlockCockpit", "LargeBlockBatteryBlock"}
		for _, axis := range []string{"Forward", "Backward", "Up", "Down", "Left", "Right"} {
			specs = append(specs, "LargeBlockSmallThrust@"+axis)
		}
		doc := buildDoc(t, "Large", specs...)
		result := engine.Analyze(doc, "Hull")
		if hasIssue(result.HealthIssues, "thruster_imbalance") {
			t.Errorf("unexpected imbalance issue")
		}
	})
}

func TestApplyFix(t *testing.T) {
	engine := NewEngine(cost.Default())

	save := func(t *testing.T, doc *blueprint.Document) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), blueprint.FileName)
		if err := doc.Save(path); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("add control block clears the issue", func(t *testing.T) {
		path := save(t, buildDoc(t, "Large", "LargeBlockBatteryBlock"))
		if !engine.ApplyFix(path, FixAddControlBlock) {
			t.Fatal("fix reported failure")
		}
		result, err := engine.AnalyzeFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if hasIssue(result.HealthIssues, "missing_control") {
			t.Error("missing_control survived the fix")
		}
		if result.BlockCounts["LargeBlockCockpit"] != 1 {
			t.Errorf("block counts = %v", result.BlockCounts)
		}
	})

	t.Run("small grid gets the small variant", func(t *testing.T) {
		path := save(t, buildDoc(t, "Small", "SmallBlockArmorBlock"))
		if !engine.ApplyFix(path, FixAddPowerBlock) {
			t.Fatal("fix reported failure")
		}
		result, err := engine.AnalyzeFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if result.BlockCounts["SmallBlockBatteryBlock"] != 1 {
			t.Errorf("block counts = %v", result.BlockCounts)
		}
	})

	t.Run("unknown fix id", func(t *testing.T) {
		path := save(t, buildDoc(t, "Large", "LargeBlockArmorBlock"))
		if engine.ApplyFix(path, "repaint_hull") {
			t.Error("unknown fix reported success")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if engine.ApplyFix(filepath.Join(t.TempDir(), "nope.sbc"), FixAddControlBlock) {
			t.Error("missing file reported success")
		}
	})
}
