package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

var dropForce bool

// dropCmd deletes the box-score database and its SQLite sidecar files.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the box-score database",
	Long:  "Permanently delete the SQLite box-score database, including its journal files. Run 'hoopstats import' afterwards to rebuild it.",
	Args:  cobra.NoArgs,
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if !dropForce {
		size := "missing"
		if fi, err := os.Stat(dbPath); err == nil {
			size = humanBytes(fi.Size())
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "This will permanently delete: %s (%s)\n", dbPath, size)
		fmt.Fprintln(cmd.ErrOrStderr(), "Re-run with --force to confirm.")
		return nil
	}
	n, freed, err := dropDatabase(dbPath)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(out, "Database does not exist, nothing to drop.")
		return nil
	}
	fmt.Fprintf(out, "Deleted: %s (%d files, %s)\n", dbPath, n, humanBytes(freed))
	return nil
}

// sidecarSuffixes are the files SQLite keeps next to a database.
var sidecarSuffixes = []string{"", "-wal", "-shm", "-journal"}

// dropDatabase removes path and its sidecars, returning how many files went
// and their total size.
func dropDatabase(path string) (files int, freed int64, err error) {
	for _, suffix := range sidecarSuffixes {
		p := path + suffix
		fi, statErr := os.Stat(p)
		if errors.Is(statErr, fs.ErrNotExist) {
			continue
		}
		if statErr != nil {
			return files, freed, fmt.Errorf("stat %s: %w", p, statErr)
		}
		if err := os.Remove(p); err != nil {
			return files, freed, fmt.Errorf("remove %s: %w", p, err)
		}
		files++
		freed += fi.Size()
	}
	return files, freed, nil
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
