// Import command for the perankh CLI.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/becked/per-ankh-sub000/internal/importer"
)

var (
	flagImportCollection int64
	flagImportWorkers    int
)

var importCmd = &cobra.Command{
	Use:   "import <save.zip|directory>...",
	Short: "Import game save archives",
	Long: `Import parses Old World save archives and loads them into the database.

Arguments may be archive files or directories; directories are scanned for
*.zip files. Saves of games already imported are skipped unless the new save
has more turns, in which case the match is rebuilt in place.

Example:
  perankh import mygame.zip
  perankh import ~/OldWorld/Saves --workers 8
  perankh import a.zip b.zip --collection 2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().Int64Var(&flagImportCollection, "collection", 0, "collection id to file matches under")
	importCmd.Flags().IntVar(&flagImportWorkers, "workers", 0, "concurrent imports (default from config)")
}

func runImport(cmd *cobra.Command, args []string) error {
	paths, err := collectArchives(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no save archives found")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	workers := flagImportWorkers
	if workers <= 0 {
		workers = configWorkers
	}

	var progress importer.ProgressFunc
	if !flagJSON {
		progress = printProgress
	}

	res := importer.ImportBatch(cmd.Context(), st, paths, importer.BatchOptions{
		Workers:      workers,
		CollectionID: flagImportCollection,
		Progress:     progress,
	})

	if flagJSON {
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	} else {
		fmt.Printf("%d imported, %d skipped, %d failed of %d\n",
			res.Successful, res.Skipped, res.Failed, res.Total)
		for _, fe := range res.Errors {
			fmt.Printf("  %s: %s\n", fe.Path, fe.Error)
		}
	}

	if res.Failed > 0 {
		return fmt.Errorf("%d of %d imports failed", res.Failed, res.Total)
	}
	return nil
}

// collectArchives expands directory arguments into their *.zip files and
// returns a de-duplicated, sorted path list.
func collectArchives(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".zip") {
				continue
			}
			add(filepath.Join(arg, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func printProgress(p importer.Progress) {
	fmt.Printf("[%d/%d] %s: %s (%.0f%%)\n",
		p.FileIndex+1, p.TotalFiles, p.FileName, p.PhaseName, p.FileFraction*100)
}
