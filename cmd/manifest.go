package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/stackprep/internal/bank"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Regenerate the stack manifest from the data directory",
	Long: "Scans <data>/<stack>/{theory,mcqs}.yaml and prints the manifest listing each stack,\n" +
		"its document kinds and its topics. With --write the manifest file is replaced.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Data.URL != "" {
			return fmt.Errorf("manifest needs a local data directory, not %s", cfg.Data.URL)
		}

		m, err := bank.BuildManifest(os.DirFS(cfg.Data.Dir), stderrLogger(cfg))
		if err != nil {
			return fmt.Errorf("build manifest: %w", err)
		}

		if write, _ := cmd.Flags().GetBool("write"); !write {
			return bank.WriteManifest(os.Stdout, m)
		}

		path := filepath.Join(cfg.Data.Dir, bank.ManifestFile)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create manifest: %w", err)
		}
		if err := bank.WriteManifest(f, m); err != nil {
			f.Close()
			return fmt.Errorf("write manifest: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
		fmt.Printf("Wrote %s (%d stacks)\n", path, len(m.Stacks))
		return nil
	},
}

func init() {
	manifestCmd.Flags().Bool("write", false, "Replace the manifest file instead of printing it")
}
