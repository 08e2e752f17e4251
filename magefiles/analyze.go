package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// Analyze builds the CLI and runs the full pipeline into output/report.
func Analyze() error {
	mg.Deps(Build, Init)

	cmd := exec.Command(filepath.Join(binDir, binName), "report")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("brca50 report: %w", err)
	}
	return nil
}
