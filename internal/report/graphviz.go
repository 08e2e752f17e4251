// Copyright Jei Raju, 2026. All rights reserved.

package report

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// RenderDOT renders a Graphviz file to an image by invoking the dot
// binary (R4.4). The output format follows the target extension; png,
// svg, and pdf are supported.
func RenderDOT(dotPath, outPath string) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(outPath)), ".")
	switch ext {
	case "png", "svg", "pdf":
	default:
		return fmt.Errorf("cannot render %q: unsupported format %q", outPath, ext)
	}

	if _, err := exec.LookPath("dot"); err != nil {
		return fmt.Errorf("graphviz not installed: %w", err)
	}

	var stderr strings.Builder
	cmd := exec.Command("dot", "-T"+ext, "-o", outPath, dotPath)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running dot: %v: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
