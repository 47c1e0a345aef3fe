package domain

// BlueprintInfo is the metadata record the library scanner extracts from
// one blueprint folder.
type BlueprintInfo struct {
	Name            string `json:"name"`
	Path            string `json:"path"`
	DisplayName     string `json:"display_name"`
	GridSize        string `json:"grid_size"` // "Large", "Small", or "Unknown"
	BlockCount      int    `json:"block_count"`
	LightArmorCount int    `json:"light_armor_count"`
	HeavyArmorCount int    `json:"heavy_armor_count"`
}
