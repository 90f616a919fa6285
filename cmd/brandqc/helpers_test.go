package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const testRubricYAML = `brand: Acme
version: "2.1"
criteria:
  - name: Logo
    weight: 50
    suggestion: Show the logo.
  - name: Lighting
    weight: 50
    suggestion: Use more light.
    automatic: true
    heuristic: lighting
`

func writePNG(t *testing.T, dir, name string, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return p
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// newProject creates a working directory holding images/white.png,
// images/black.png, rubric.yaml and scores.csv, and changes into it.
func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	images := filepath.Join(dir, "images")
	require.NoError(t, os.MkdirAll(images, 0o755))
	writePNG(t, images, "white.png", color.White)
	writePNG(t, images, "black.png", color.Black)
	writeFile(t, filepath.Join(dir, "rubric.yaml"), testRubricYAML)
	writeFile(t, filepath.Join(dir, "scores.csv"), "Image,Logo\nwhite.png,5\nblack.png,4\n")
	return dir
}

func executeCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
