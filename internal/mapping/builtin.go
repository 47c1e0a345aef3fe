package mapping

// Built-in category pair tables. Sources are the vanilla block subtypes;
// targets are the upgraded variants.

var armorPairs = map[string]string{
	// Large grid, standard shapes
	"LargeBlockArmorBlock":     "LargeHeavyBlockArmorBlock",
	"LargeBlockArmorSlope":     "LargeHeavyBlockArmorSlope",
	"LargeBlockArmorCorner":    "LargeHeavyBlockArmorCorner",
	"LargeBlockArmorCornerInv": "LargeHeavyBlockArmorCornerInv",
	// Round armor
	"LargeRoundArmor_Slope":     "LargeHeavyRoundArmor_Slope",
	"LargeRoundArmor_Corner":    "LargeHeavyRoundArmor_Corner",
	"LargeRoundArmor_CornerInv": "LargeHeavyRoundArmor_CornerInv",
	// 2x1 slopes and corners
	"LargeBlockArmorSlope2Base":     "LargeHeavyBlockArmorSlope2Base",
	"LargeBlockArmorSlope2Tip":      "LargeHeavyBlockArmorSlope2Tip",
	"LargeBlockArmorCorner2Base":    "LargeHeavyBlockArmorCorner2Base",
	"LargeBlockArmorCorner2Tip":     "LargeHeavyBlockArmorCorner2Tip",
	"LargeBlockArmorInvCorner2Base": "LargeHeavyBlockArmorInvCorner2Base",
	"LargeBlockArmorInvCorner2Tip":  "LargeHeavyBlockArmorInvCorner2Tip",
	// Half blocks
	"LargeHalfArmorBlock":      "LargeHeavyHalfArmorBlock",
	"LargeHalfSlopeArmorBlock": "LargeHeavyHalfSlopeArmorBlock",
	// Panels
	"LargeArmorPanelLight": "LargeArmorPanelHeavy",
	// Sloped corners
	"LargeArmorSlopedCorner":     "LargeHeavyArmorSlopedCorner",
	"LargeArmorSlopedCornerTip":  "LargeHeavyArmorSlopedCornerTip",
	"LargeArmorSlopedCornerBase": "LargeHeavyArmorSlopedCornerBase",
	// Large grid, extended shapes (Decorative / Warfare DLC)
	"LargeBlockArmorHalfSlopeCorner":             "LargeHeavyBlockArmorHalfSlopeCorner",
	"LargeBlockArmorHalfSlopeCornerInverted":     "LargeHeavyBlockArmorHalfSlopeCornerInverted",
	"LargeBlockArmorHalfCorner":                  "LargeHeavyBlockArmorHalfCorner",
	"LargeBlockArmorHalfSlopedCorner":            "LargeHeavyBlockArmorHalfSlopedCorner",
	"LargeBlockArmorHalfSlopedCornerBase":        "LargeHeavyBlockArmorHalfSlopedCornerBase",
	"LargeBlockArmorSlopeTransition":             "LargeHeavyBlockArmorSlopeTransition",
	"LargeBlockArmorSlopeTransitionBase":         "LargeHeavyBlockArmorSlopeTransitionBase",
	"LargeBlockArmorSlopeTransitionTip":          "LargeHeavyBlockArmorSlopeTransitionTip",
	"LargeBlockArmorSlopeTransitionMirrored":     "LargeHeavyBlockArmorSlopeTransitionMirrored",
	"LargeBlockArmorSlopeTransitionBaseMirrored": "LargeHeavyBlockArmorSlopeTransitionBaseMirrored",
	"LargeBlockArmorSlopeTransitionTipMirrored":  "LargeHeavyBlockArmorSlopeTransitionTipMirrored",
	"LargeArmorQuarterBlock":                     "LargeHeavyArmorQuarterBlock",
	"LargeBlockArmorRoundedSlope":                "LargeHeavyBlockArmorRoundedSlope",
	"LargeBlockArmorRoundedCorner":               "LargeHeavyBlockArmorRoundedCorner",
	"LargeArmorPanelLightSlope":                  "LargeArmorPanelHeavySlope",
	"LargeArmorPanelLightHalfSlope":              "LargeArmorPanelHeavyHalfSlope",

	// Small grid, standard shapes
	"SmallBlockArmorBlock":     "SmallHeavyBlockArmorBlock",
	"SmallBlockArmorSlope":     "SmallHeavyBlockArmorSlope",
	"SmallBlockArmorCorner":    "SmallHeavyBlockArmorCorner",
	"SmallBlockArmorCornerInv": "SmallHeavyBlockArmorCornerInv",
	// Round armor
	"SmallRoundArmor_Slope":     "SmallHeavyRoundArmor_Slope",
	"SmallRoundArmor_Corner":    "SmallHeavyRoundArmor_Corner",
	"SmallRoundArmor_CornerInv": "SmallHeavyRoundArmor_CornerInv",
	// 2x1 slopes and corners
	"SmallBlockArmorSlope2Base":     "SmallHeavyBlockArmorSlope2Base",
	"SmallBlockArmorSlope2Tip":      "SmallHeavyBlockArmorSlope2Tip",
	"SmallBlockArmorCorner2Base":    "SmallHeavyBlockArmorCorner2Base",
	"SmallBlockArmorCorner2Tip":     "SmallHeavyBlockArmorCorner2Tip",
	"SmallBlockArmorInvCorner2Base": "SmallHeavyBlockArmorInvCorner2Base",
	"SmallBlockArmorInvCorner2Tip":  "SmallHeavyBlockArmorInvCorner2Tip",
	// Half blocks
	"SmallHalfArmorBlock":      "SmallHeavyHalfArmorBlock",
	"SmallHalfSlopeArmorBlock": "SmallHeavyHalfSlopeArmorBlock",
	// Panels
	"SmallArmorPanelLight": "SmallArmorPanelHeavy",
	// Sloped corners
	"SmallArmorSlopedCorner":     "SmallHeavyArmorSlopedCorner",
	"SmallArmorSlopedCornerTip":  "SmallHeavyArmorSlopedCornerTip",
	"SmallArmorSlopedCornerBase": "SmallHeavyArmorSlopedCornerBase",
	// Small grid, extended shapes (Decorative / Warfare DLC)
	"SmallBlockArmorHalfSlopeCorner":             "SmallHeavyBlockArmorHalfSlopeCorner",
	"SmallBlockArmorHalfSlopeCornerInverted":     "SmallHeavyBlockArmorHalfSlopeCornerInverted",
	"SmallBlockArmorHalfCorner":                  "SmallHeavyBlockArmorHalfCorner",
	"SmallBlockArmorHalfSlopedCorner":            "SmallHeavyBlockArmorHalfSlopedCorner",
	"SmallBlockArmorHalfSlopedCornerBase":        "SmallHeavyBlockArmorHalfSlopedCornerBase",
	"SmallBlockArmorSlopeTransition":             "SmallHeavyBlockArmorSlopeTransition",
	"SmallBlockArmorSlopeTransitionBase":         "SmallHeavyBlockArmorSlopeTransitionBase",
	"SmallBlockArmorSlopeTransitionTip":          "SmallHeavyBlockArmorSlopeTransitionTip",
	"SmallBlockArmorSlopeTransitionMirrored":     "SmallHeavyBlockArmorSlopeTransitionMirrored",
	"SmallBlockArmorSlopeTransitionBaseMirrored": "SmallHeavyBlockArmorSlopeTransitionBaseMirrored",
	"SmallBlockArmorSlopeTransitionTipMirrored":  "SmallHeavyBlockArmorSlopeTransitionTipMirrored",
	"SmallArmorQuarterBlock":                     "SmallHeavyArmorQuarterBlock",
	"SmallBlockArmorRoundedSlope":                "SmallHeavyBlockArmorRoundedSlope",
	"SmallBlockArmorRoundedCorner":               "SmallHeavyBlockArmorRoundedCorner",
	"SmallArmorPanelLightSlope":                  "SmallArmorPanelHeavySlope",
	"SmallArmorPanelLightHalfSlope":              "SmallArmorPanelHeavyHalfSlope",
}

var thrusterPairs = map[string]string{
	// Ion
	"LargeBlockSmallThrust": "LargeBlockLargeThrust",
	"SmallBlockSmallThrust": "SmallBlockLargeThrust",
	// Hydrogen
	"LargeBlockSmallHydrogenThrust": "LargeBlockLargeHydrogenThrust",
	"SmallBlockSmallHydrogenThrust": "SmallBlockLargeHydrogenThrust",
	// Atmospheric
	"LargeBlockSmallAtmosphericThrust": "LargeBlockLargeAtmosphericThrust",
	"SmallBlockSmallAtmosphericThrust": "SmallBlockLargeAtmosphericThrust",
}

var weaponPairs = map[string]string{
	"LargeGatlingTurret":   "LargeAutocannonTurret",
	"LargeInteriorTurret":  "LargeCalibreTurret",
	"LargeMissileTurret":   "LargeArtilleryTurret",
	"SmallGatlingGun":      "SmallAutocannon",
	"SmallMissileLauncher": "SmallArtillery",
}

var functionalPairs = map[string]string{
	"BasicAssembler":           "LargeAssembler",
	"BasicRefinery":            "LargeRefinery",
	"LargeBlockSmallGenerator": "LargeBlockLargeGenerator",
	"SmallBlockSmallGenerator": "SmallBlockLargeGenerator",
	"LargeBlockSmallContainer": "LargeBlockLargeContainer",
	"SmallBlockSmallContainer": "SmallBlockLargeContainer",
}

// Builtin returns the built-in category set. Only armor is enabled by
// default; the upgrade categories are opt-in.
func Builtin() []Category {
	return []Category{
		{
			Name:             "armor",
			Description:      "Vanilla armor conversions between light and heavy variants.",
			Pairs:            armorPairs,
			GridSizes:        []string{"Large", "Small"},
			Origin:           OriginBuiltin,
			EnabledByDefault: true,
		},
		{
			Name:        "thrusters",
			Description: "Tier upgrades for ion, hydrogen, and atmospheric thrusters.",
			Pairs:       thrusterPairs,
			GridSizes:   []string{"Large", "Small"},
			Origin:      OriginBuiltin,
			Tags:        []string{"propulsion", "upgrade"},
		},
		{
			Name:        "weapons",
			Description: "Vanilla weapon tier upgrades (gatling/interior/rocket families).",
			Pairs:       weaponPairs,
			GridSizes:   []string{"Large", "Small"},
			Origin:      OriginBuiltin,
			Tags:        []string{"combat", "upgrade"},
		},
		{
			Name:        "functional",
			Description: "Upgrades for production, storage, and power-generation blocks.",
			Pairs:       functionalPairs,
			GridSizes:   []string{"Large", "Small"},
			Origin:      OriginBuiltin,
			Tags:        []string{"utility", "upgrade"},
		},
	}
}

// NewBuiltinRegistry builds a registry preloaded with the built-in
// categories.
func NewBuiltinRegistry() *Registry {
	r, err := NewRegistry(Builtin()...)
	if err != nil {
		// The built-in tables are compile-time data; a validation failure
		// here is a programming error.
		panic(err)
	}
	return r
}

// ArmorSubtypes returns the light and heavy armor subtype sets derived
// from the armor category table. The scanner uses these to count armor
// blocks per blueprint.
func ArmorSubtypes() (light, heavy map[string]bool) {
	light = make(map[string]bool, len(armorPairs))
	heavy = make(map[string]bool, len(armorPairs))
	for source, target := range armorPairs {
		light[source] = true
		heavy[target] = true
	}
	return light, heavy
}
