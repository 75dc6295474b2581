package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/akngest/internal/akn"
	"github.com/dgallion1/akngest/internal/convert"
	"github.com/dgallion1/akngest/internal/doctree"
	"github.com/dgallion1/akngest/internal/preview"
)

var (
	previewFl     convFlags
	previewOut    string
	previewFormat string
)

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Render a Final Acts export or an AKN file as HTML or Markdown",
	Long: `preview renders the recovered structure for proofreading. The input is
either a source export, which is converted first, or AKN markup written by
convert (.xml).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if previewFormat != "html" && previewFormat != "markdown" {
			return fmt.Errorf("unknown format %q (html, markdown)", previewFormat)
		}
		c, err := loadCollection(cmd, args[0])
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if previewFormat == "markdown" {
			buf.WriteString(preview.Markdown(c))
		} else if err := preview.RenderHTML(&buf, c, filepath.Base(args[0])); err != nil {
			return err
		}

		if previewOut == "" {
			_, err = io.Copy(cmd.OutOrStdout(), &buf)
			return err
		}
		return os.WriteFile(previewOut, buf.Bytes(), 0o644)
	},
}

func init() {
	previewFl.bind(previewCmd)
	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "", "Write to this file instead of stdout")
	previewCmd.Flags().StringVarP(&previewFormat, "format", "f", "html", "Output format (html, markdown)")
}

// loadCollection decodes AKN markup or converts a source export.
func loadCollection(cmd *cobra.Command, path string) (*doctree.Collection, error) {
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return akn.Decode(f)
	}

	opts, err := previewFl.options(cmd, cfg)
	if err != nil {
		return nil, err
	}
	res, err := convert.ConvertFile(cmd.Context(), path, opts, newLogger(cmd.ErrOrStderr()))
	if err != nil {
		return nil, err
	}
	return res.Collection, nil
}
