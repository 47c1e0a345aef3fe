package analytics

import "sebx/internal/blueprint"

// Fix identifiers the health audit attaches to remediable issues.
const (
	FixAddControlBlock = "add_control_block"
	FixAddPowerBlock   = "add_power_block"
)

// ApplyFix applies the named automated remediation to the blueprint file
// at path and reports whether anything was written. Unknown fix ids and
// documents without a block container report false.
func (e *Engine) ApplyFix(path, fixID string) bool {
	doc, err := blueprint.Load(path)
	if err != nil {
		return false
	}

	gridSize := doc.GridSize()

	var typeName, subtype string
	switch fixID {
	case FixAddControlBlock:
		typeName = "MyObjectBuilder_Cockpit"
		subtype = "LargeBlockCockpit"
		if gridSize != "Large" {
			subtype = "SmallBlockCockpit"
		}
	case FixAddPowerBlock:
		typeName = "MyObjectBuilder_BatteryBlock"
		subtype = "LargeBlockBatteryBlock"
		if gridSize != "Large" {
			subtype = "SmallBlockBatteryBlock"
		}
	default:
		return false
	}

	if !doc.AppendBlock(typeName, subtype) {
		return false
	}
	return doc.Save(path) == nil
}
