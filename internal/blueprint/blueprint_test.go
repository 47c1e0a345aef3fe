package blueprint

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<Definitions xmlns:xsd="http://www.w3.org/2001/XMLSchema" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <ShipBlueprints>
    <ShipBlueprint>
      <CubeGrids>
        <CubeGrid>
          <GridSizeEnum>Large</GridSizeEnum>
          <CubeBlocks>
            <MyObjectBuilder_CubeBlock xsi:type="MyObjectBuilder_CubeBlock">
              <SubtypeName>LargeBlockArmorBlock</SubtypeName>
              <Min x="0" y="0" z="0" />
              <BlockOrientation Forward="Forward" Up="Up" />
            </MyObjectBuilder_CubeBlock>
            <MyObjectBuilder_CubeBlock xsi:type="MyObjectBuilder_Cockpit">
              <SubtypeId>LargeBlockCockpit</SubtypeId>
            </MyObjectBuilder_CubeBlock>
          </CubeBlocks>
        </CubeGrid>
      </CubeGrids>
    </ShipBlueprint>
  </ShipBlueprints>
</Definitions>
`

func TestParse(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if doc.Root.Name != "Definitions" {
		t.Errorf("unexpected root: %s", doc.Root.Name)
	}

	blocks := doc.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}

	t.Run("subtype prefers SubtypeName", func(t *testing.T) {
		if got := blocks[0].Subtype(); got != "LargeBlockArmorBlock" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("subtype falls back to SubtypeId", func(t *testing.T) {
		if got := blocks[1].Subtype(); got != "LargeBlockCockpit" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("grid size", func(t *testing.T) {
		if got := doc.GridSize(); got != "Large" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("orientation forward", func(t *testing.T) {
		if got := blocks[0].OrientationForward(); got != "Forward" {
			t.Errorf("got %q", got)
		}
		if got := blocks[1].OrientationForward(); got != "" {
			t.Errorf("expected empty forward, got %q", got)
		}
	})

	t.Run("type attribute", func(t *testing.T) {
		if got := blocks[1].TypeName(); got != "MyObjectBuilder_Cockpit" {
			t.Errorf("got %q", got)
		}
	})
}

func TestSetSubtype(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}

	blocks := doc.Blocks()
	blocks[0].SetSubtype("LargeHeavyBlockArmorBlock")
	if got := blocks[0].Subtype(); got != "LargeHeavyBlockArmorBlock" {
		t.Errorf("got %q", got)
	}

	// The write goes to whichever subtype field the record carries.
	blocks[1].SetSubtype("SmallBlockCockpit")
	if got := blocks[1].Element().ChildText("SubtypeId"); got != "SmallBlockCockpit" {
		t.Errorf("SubtypeId not updated: %q", got)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}

	again, err := Parse(strings.NewReader(string(doc.Bytes())))
	if err != nil {
		t.Fatalf("re-parse rendered output: %v", err)
	}

	if len(again.Blocks()) != 2 {
		t.Errorf("blocks lost in round trip")
	}
	if again.GridSize() != "Large" {
		t.Errorf("grid size lost in round trip")
	}
	if got := again.Blocks()[1].TypeName(); got != "MyObjectBuilder_Cockpit" {
		t.Errorf("xsi:type lost in round trip: %q", got)
	}

	// Rendering is stable once normalized.
	if string(doc.Bytes()) != string(again.Bytes()) {
		t.Error("render is not idempotent")
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "bp.sbc")); err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("malformed document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bp.sbc")
		if err := os.WriteFile(path, []byte("<Definitions><broken"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Fatal("expected parse error")
		}
	})
}

func TestSave(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "bp.sbc")
	if err := doc.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load saved file: %v", err)
	}
	if len(loaded.Blocks()) != 2 {
		t.Errorf("expected 2 blocks after reload")
	}
}

func TestFindBlueprintFile(t *testing.T) {
	t.Run("direct file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bp.sbc")
		os.WriteFile(path, []byte(sampleDoc), 0644)
		got, err := FindBlueprintFile(path)
		if err != nil || got != path {
			t.Fatalf("got %q, %v", got, err)
		}
	})

	t.Run("blueprint folder", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bp.sbc")
		os.WriteFile(path, []byte(sampleDoc), 0644)
		got, err := FindBlueprintFile(dir)
		if err != nil || got != path {
			t.Fatalf("got %q, %v", got, err)
		}
	})

	t.Run("nested folder", func(t *testing.T) {
		dir := t.TempDir()
		nested := filepath.Join(dir, "MyShip")
		os.MkdirAll(nested, 0755)
		path := filepath.Join(nested, "bp.sbc")
		os.WriteFile(path, []byte(sampleDoc), 0644)
		got, err := FindBlueprintFile(dir)
		if err != nil || got != path {
			t.Fatalf("got %q, %v", got, err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		if _, err := FindBlueprintFile(t.TempDir()); err == nil {
			t.Fatal("expected error")
		}
	})
}
