// Command sebx inspects and converts Space Engineers blueprint files:
// armor and block subtype conversion, resource analytics, library
// scanning, and community mapping profile management.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"sebx/internal/analytics"
	"sebx/internal/blueprint"
	"sebx/internal/config"
	"sebx/internal/convert"
	"sebx/internal/cost"
	"sebx/internal/mapping"
	"sebx/internal/profile"
	"sebx/internal/repository/sqlite"
	"sebx/internal/scanner"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cfg, cfgPath, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sebx: %s: %v\n", cfgPath, err)
		os.Exit(1)
	}

	cmd, args := flag.Arg(0), flag.Args()[1:]
	switch cmd {
	case "convert":
		err = runConvert(cfg, args)
	case "analyze":
		err = runAnalyze(cfg, args)
	case "compare":
		err = runCompare(cfg, args)
	case "scan":
		err = runScan(cfg, args)
	case "profiles":
		err = runProfiles(cfg, args)
	case "list-mappings":
		err = runListMappings(cfg, args)
	case "diagnose":
		err = runDiagnose(cfg, args)
	default:
		fmt.Fprintf(os.Stderr, "sebx: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "sebx: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: sebx <command> [flags] [args]

Commands:
  convert        Apply a subtype mapping to a blueprint
  analyze        Aggregate block, resource, and health statistics
  compare        Preview the cost impact of a mapping
  scan           Scan a blueprint library directory
  profiles       Manage community mapping profiles
  list-mappings  Show the available mapping categories
  diagnose       Dump raw block statistics for library blueprints

Run 'sebx <command> -h' for command flags.
`)
}

// buildRegistry assembles the built-in categories plus every profile in
// the profiles directory.
func buildRegistry(cfg *config.Config) (*mapping.Registry, *profile.Manager, error) {
	registry := mapping.NewBuiltinRegistry()
	manager, err := profile.NewManager(cfg.ProfilesDir)
	if err != nil {
		return nil, nil, err
	}
	if _, err := manager.LoadAll(); err != nil {
		return nil, nil, err
	}
	if _, err := manager.RegisterCategories(registry); err != nil {
		return nil, nil, err
	}
	return registry, manager, nil
}

func categoryNames(cfg *config.Config, csv string) []string {
	if csv == "" {
		return cfg.DefaultCategories
	}
	var names []string
	for _, name := range strings.Split(csv, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func loadCostDB(cfg *config.Config, override string) (*cost.Database, error) {
	path := override
	if path == "" {
		path = cfg.CostDatabase
	}
	if path == "" {
		return cost.Default(), nil
	}
	return cost.Load(path)
}

func runConvert(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	categories := fs.String("categories", "", "comma-separated mapping categories (default from config)")
	reverse := fs.Bool("reverse", false, "apply the mapping in reverse")
	dryRun := fs.Bool("dry-run", false, "report planned changes without writing")
	out := fs.String("out", "", "write the converted blueprint to this path")
	asCopy := fs.Bool("copy", false, "convert into a prefixed sibling copy of the blueprint folder")
	noBackup := fs.Bool("no-backup", false, "skip the .backup copy on in-place conversion")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("convert: expected one blueprint path")
	}
	path := fs.Arg(0)

	registry, _, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	names := categoryNames(cfg, *categories)
	m, err := registry.BuildMapping(*reverse, names)
	if err != nil {
		return err
	}
	engine := convert.NewEngine(m)

	if *asCopy {
		if *out != "" {
			return fmt.Errorf("convert: -copy and -out are mutually exclusive")
		}
		copier := convert.NewCopier(engine, convert.PrefixFor(names, *reverse))
		dest, scanned, replaced, err := copier.Convert(path)
		if err != nil {
			return err
		}
		fmt.Printf("Converted copy: %s (%d of %d blocks replaced)\n", dest, replaced, scanned)
		return nil
	}

	scanned, replaced, err := engine.Process(path, convert.ProcessOptions{
		OutputPath:   *out,
		CreateBackup: cfg.CreateBackups() && !*noBackup,
		DryRun:       *dryRun,
	})
	if err != nil {
		return err
	}
	if *dryRun {
		fmt.Println(engine.DryRunReport())
		return nil
	}
	fmt.Printf("Replaced %d of %d blocks\n", replaced, scanned)
	return nil
}

func runAnalyze(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	costsPath := fs.String("costs", "", "cost database file (default embedded data)")
	asJSON := fs.Bool("json", false, "emit the result as JSON")
	fix := fs.String("fix", "", "apply the named automated fix before analyzing")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("analyze: expected one blueprint path")
	}
	path := fs.Arg(0)

	db, err := loadCostDB(cfg, *costsPath)
	if err != nil {
		return err
	}
	engine := analytics.NewEngine(db)

	if *fix != "" {
		file, err := blueprint.FindBlueprintFile(path)
		if err != nil {
			return err
		}
		if !engine.ApplyFix(file, *fix) {
			return fmt.Errorf("analyze: fix %q could not be applied", *fix)
		}
		fmt.Printf("Applied fix %s\n", *fix)
	}

	result, err := engine.AnalyzeFile(path)
	if err != nil {
		return err
	}

	if *asJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Blueprint: %s (%s grid)\n", result.BlueprintName, result.GridSize)
	fmt.Printf("Blocks: %d  PCU: %d  Mass: %.2f kg\n", result.BlockCount, result.PCUTotal, result.MassTotal)

	fmt.Println("\nCategories:")
	for _, category := range sortedKeysInt(result.CategoryCounts) {
		fmt.Printf("  %-12s %d\n", category, result.CategoryCounts[category])
	}

	fmt.Println("\nComponents:")
	for _, component := range sortedKeysInt(result.ComponentTotals) {
		fmt.Printf("  %-20s %d\n", component, result.ComponentTotals[component])
	}

	fmt.Println("\nOre estimate:")
	for _, ore := range sortedKeysFloat(result.OreTotals) {
		fmt.Printf("  %-20s %.1f\n", ore, result.OreTotals[ore])
	}

	if len(result.UnknownSubtypes) > 0 {
		fmt.Printf("\nUnknown subtypes: %s\n", strings.Join(result.UnknownSubtypes, ", "))
	}

	if len(result.HealthIssues) > 0 {
		fmt.Println("\nHealth:")
		for _, issue := range result.HealthIssues {
			fmt.Printf("  [%s] %s %s\n", issue.Severity, issue.Message, issue.Suggestion)
			if issue.FixID != "" {
				fmt.Printf("          fixable with: sebx analyze -fix %s\n", issue.FixID)
			}
		}
	}
	return nil
}

func runCompare(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	categories := fs.String("categories", "", "comma-separated mapping categories (default from config)")
	reverse := fs.Bool("reverse", false, "apply the mapping in reverse")
	costsPath := fs.String("costs", "", "cost database file (default embedded data)")
	csvOut := fs.String("csv", "", "also write the comparison as CSV to this path")
	textOut := fs.String("text", "", "also write the comparison as text to this path")
	asJSON := fs.Bool("json", false, "emit the result as JSON")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("compare: expected one blueprint path")
	}
	path := fs.Arg(0)

	registry, _, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	names := categoryNames(cfg, *categories)
	m, err := registry.BuildMapping(*reverse, names)
	if err != nil {
		return err
	}
	db, err := loadCostDB(cfg, *costsPath)
	if err != nil {
		return err
	}

	mode := strings.Join(names, "+")
	if *reverse {
		mode += " (reversed)"
	}
	cmp, err := analytics.NewEngine(db).CompareFile(path, m, mode)
	if err != nil {
		return err
	}

	if *csvOut != "" {
		if err := analytics.ExportComparisonCSV(cmp, *csvOut); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", *csvOut)
	}
	if *textOut != "" {
		if err := analytics.ExportComparisonText(cmp, *textOut); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", *textOut)
	}

	if *asJSON {
		data, err := json.MarshalIndent(cmp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Mode: %s\n", cmp.Mode)
	fmt.Printf("PCU: %d -> %d (delta %+d)\n", cmp.BeforePCU, cmp.AfterPCU, cmp.PCUDelta)
	fmt.Printf("Mass: %.2f -> %.2f (delta %+.2f)\n", cmp.BeforeMass, cmp.AfterMass, cmp.MassDelta)

	fmt.Println("\nBlock changes:")
	for _, change := range sortedKeysInt(cmp.BlockChanges) {
		fmt.Printf("  %s (x%d)\n", change, cmp.BlockChanges[change])
	}

	fmt.Println("\nComponent deltas:")
	for _, component := range sortedKeysInt(cmp.ComponentDelta) {
		if delta := cmp.ComponentDelta[component]; delta != 0 {
			fmt.Printf("  %s: %+d\n", component, delta)
		}
	}

	fmt.Println("\nOre deltas:")
	for _, ore := range sortedKeysFloat(cmp.OreDelta) {
		if delta := cmp.OreDelta[ore]; delta != 0 {
			fmt.Printf("  %s: %+.1f\n", ore, delta)
		}
	}
	return nil
}

func runScan(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	dir := fs.String("dir", "", "blueprint library directory (default from config or game location)")
	indexPath := fs.String("index", "", "scan index database (default from config)")
	search := fs.String("search", "", "filter blueprints by name")
	minLight := fs.Int("min-light-armor", 0, "only list blueprints with at least this many light armor blocks")
	asJSON := fs.Bool("json", false, "emit the result as JSON")
	fs.Parse(args)

	target := *dir
	if target == "" {
		target = cfg.BlueprintsDir
	}
	if target == "" {
		var err error
		if target, err = scanner.DefaultBlueprintDir(); err != nil {
			return err
		}
	}

	var index *sqlite.Repository
	idxPath := *indexPath
	if idxPath == "" {
		idxPath = cfg.IndexDatabase
	}
	if idxPath != "" {
		var err error
		if index, err = sqlite.New(idxPath); err != nil {
			return err
		}
		defer index.Close()
	}

	infos, err := scanner.NewScanner(index).Scan(context.Background(), target)
	if err != nil {
		return err
	}
	infos = scanner.Filter(infos, *search, *minLight)

	if *asJSON {
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("%d blueprint(s) in %s\n\n", len(infos), target)
	for _, info := range infos {
		fmt.Printf("%-30s %-7s %5d blocks  %4d light / %4d heavy armor\n",
			info.Name, info.GridSize, info.BlockCount, info.LightArmorCount, info.HeavyArmorCount)
	}
	return nil
}

func runProfiles(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("profiles", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("profiles: expected list, show, import, export, or duplicate")
	}

	manager, err := profile.NewManager(cfg.ProfilesDir)
	if err != nil {
		return err
	}
	if _, err := manager.LoadAll(); err != nil {
		return err
	}

	action, rest := fs.Arg(0), fs.Args()[1:]
	switch action {
	case "list":
		profiles := manager.List()
		if len(profiles) == 0 {
			fmt.Printf("No profiles in %s\n", cfg.ProfilesDir)
			return nil
		}
		for _, p := range profiles {
			fmt.Printf("%-20s v%-8s by %-15s %d categories\n", p.Name, p.Version, p.Author, len(p.Categories))
		}
		return nil

	case "show":
		if len(rest) != 1 {
			return fmt.Errorf("profiles show: expected a profile name")
		}
		p, err := manager.Get(rest[0])
		if err != nil {
			return err
		}
		fmt.Printf("Name:        %s\nAuthor:      %s\nVersion:     %s\nGame:        %s\nDescription: %s\n",
			p.Name, p.Author, p.Version, p.GameVersion, p.Description)
		fmt.Println("\nCategories:")
		for _, c := range p.Categories {
			fmt.Printf("  %-40s %d pairs\n", c.Name, len(c.Pairs))
		}
		return nil

	case "import":
		if len(rest) != 1 {
			return fmt.Errorf("profiles import: expected a profile file")
		}
		p, dest, err := manager.Import(rest[0])
		if err != nil {
			return err
		}
		fmt.Printf("Imported %s to %s\n", p.Name, dest)
		return nil

	case "export":
		if len(rest) != 2 {
			return fmt.Errorf("profiles export: expected a profile name and destination")
		}
		dest, err := manager.Export(rest[0], rest[1])
		if err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", dest)
		return nil

	case "duplicate":
		if len(rest) != 2 {
			return fmt.Errorf("profiles duplicate: expected a profile name and a new name")
		}
		p, err := manager.Duplicate(rest[0], rest[1])
		if err != nil {
			return err
		}
		fmt.Printf("Created %s with %d categories\n", p.Name, len(p.Categories))
		return nil

	default:
		return fmt.Errorf("profiles: unknown action %q", action)
	}
}

func runListMappings(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("list-mappings", flag.ExitOnError)
	showPairs := fs.String("pairs", "", "print the pairs of one category")
	fs.Parse(args)

	registry, _, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	if *showPairs != "" {
		c, err := registry.Get(*showPairs)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", c.Name, c.Origin)
		for _, source := range sortedKeysString(c.Pairs) {
			fmt.Printf("  %s -> %s\n", source, c.Pairs[source])
		}
		return nil
	}

	for _, c := range registry.List() {
		marker := " "
		if registry.IsEnabled(c.Name) {
			marker = "*"
		}
		fmt.Printf("%s %-45s %-10s %3d pairs  %s\n", marker, c.Name, c.Origin, len(c.Pairs), c.Description)
	}
	fmt.Println("\n* = enabled by default")
	return nil
}

func runDiagnose(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("diagnose", flag.ExitOnError)
	dir := fs.String("dir", "", "blueprint library directory (default from config or game location)")
	limit := fs.Int("limit", 5, "number of blueprints to inspect")
	dump := fs.Bool("dump", false, "dump the full parsed metadata of each blueprint")
	fs.Parse(args)

	target := *dir
	if target == "" {
		target = cfg.BlueprintsDir
	}
	if target == "" {
		var err error
		if target, err = scanner.DefaultBlueprintDir(); err != nil {
			return err
		}
	}

	infos, err := scanner.NewScanner(nil).Scan(context.Background(), target)
	if err != nil {
		return err
	}
	if len(infos) > *limit {
		infos = infos[:*limit]
	}

	allSubtypes := make(map[string]int)
	armorTypes := make(map[string]string)

	fmt.Println("=== ANALYZING BLUEPRINTS ===")
	for _, info := range infos {
		fmt.Printf("\nBlueprint: %s\n", info.Name)
		if *dump {
			spew.Fdump(os.Stdout, info)
		}

		file, err := blueprint.FindBlueprintFile(info.Path)
		if err != nil {
			continue
		}
		doc, err := blueprint.Load(file)
		if err != nil {
			fmt.Printf("  Error: %v\n", err)
			continue
		}

		unique := make(map[string]bool)
		for _, block := range doc.Blocks() {
			subtype := block.Subtype()
			if subtype == "" {
				continue
			}
			allSubtypes[subtype]++
			unique[subtype] = true
			if strings.Contains(subtype, "Armor") {
				if _, ok := armorTypes[subtype]; !ok {
					armorTypes[subtype] = block.TypeName()
				}
			}
		}
		fmt.Printf("  Total blocks found: %d\n", info.BlockCount)
		fmt.Printf("  Unique block types: %d\n", len(unique))
	}

	fmt.Println("\n=== MOST COMMON BLOCKS ===")
	subtypes := sortedKeysInt(allSubtypes)
	sort.Slice(subtypes, func(i, j int) bool {
		if allSubtypes[subtypes[i]] != allSubtypes[subtypes[j]] {
			return allSubtypes[subtypes[i]] > allSubtypes[subtypes[j]]
		}
		return subtypes[i] < subtypes[j]
	})
	if len(subtypes) > 30 {
		subtypes = subtypes[:30]
	}
	for _, subtype := range subtypes {
		fmt.Printf("%-50s : %4d times\n", subtype, allSubtypes[subtype])
	}

	fmt.Println("\n=== ARMOR BLOCKS FOUND ===")
	for _, subtype := range sortedKeysString(armorTypes) {
		fmt.Printf("  %-50s (Type: %s)\n", subtype, armorTypes[subtype])
	}

	light, heavy := 0, 0
	for subtype := range armorTypes {
		if strings.Contains(subtype, "Heavy") {
			heavy++
		} else {
			light++
		}
	}
	fmt.Printf("\nLight armor blocks found: %d\nHeavy armor blocks found: %d\n", light, heavy)
	return nil
}

func sortedKeysInt(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeysFloat(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeysString(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
