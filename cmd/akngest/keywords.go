package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/akngest/internal/classify"
	"github.com/dgallion1/akngest/internal/convert"
)

var (
	keywordsFile string
	keywordsYAML bool
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Print the recital and operative keyword table in match order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.KeywordsFile
		if cmd.Flags().Changed("keywords") {
			path = keywordsFile
		}
		table := classify.DefaultTable()
		if path != "" {
			t, err := convert.LoadKeywords(path)
			if err != nil {
				return err
			}
			table = t
		}

		out := cmd.OutOrStdout()
		if keywordsYAML {
			return table.WriteYAML(out)
		}
		for _, k := range table.Keywords() {
			style := titleStyle
			if k.Category == classify.Preamble {
				style = dimStyle
			}
			fmt.Fprintf(out, "%s %s\n", style.Width(10).Render(k.Category.String()), k.Text)
		}
		fmt.Fprintf(out, "%d keywords\n", table.Len())
		return nil
	},
}

func init() {
	keywordsCmd.Flags().StringVar(&keywordsFile, "keywords", "", "YAML keyword file to load instead of KEYWORDS_FILE")
	keywordsCmd.Flags().BoolVar(&keywordsYAML, "yaml", false, "Print a keyword file that reproduces the table")
}
