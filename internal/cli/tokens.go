package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/framespec/pkg/pipeline"
	"github.com/matzehuels/framespec/pkg/render"
)

// tokensCommand creates the tokens command for compiling design tokens.
func (c *CLI) tokensCommand() *cobra.Command {
	opts := &compileOpts{}

	cmd := &cobra.Command{
		Use:   "tokens [ref]",
		Short: "Compile the design tokens (colors, typography, spacing, radii, shadows)",
		Long: `Compile the design tokens extracted from the file: colors, font
families, the font-size scale, spacing values, corner radii, and shadows.

The output format is selected with --format:
  css       CSS custom properties in a :root block (default)
  scss      SCSS $variables
  json      grouped JSON document
  tailwind  tailwind.config.js theme.extend snippet

Examples:
  framespec tokens AbCdEf1234567890AbCdEf
  framespec tokens AbCdEf1234567890AbCdEf --format scss -o _tokens.scss`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.tokenFormat != "" {
				if _, err := render.ParseTokenFormat(opts.tokenFormat); err != nil {
					return err
				}
			}
			return c.runCompile(cmd.Context(), refArg(args), []string{pipeline.ArtifactTokens}, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.tokenFormat, "format", "f", "", "output format: css (default), scss, json, tailwind")

	return cmd
}
