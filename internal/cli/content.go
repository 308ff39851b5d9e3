package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/framespec/pkg/pipeline"
)

// contentCommand creates the content command for extracting copy and
// information architecture.
func (c *CLI) contentCommand() *cobra.Command {
	opts := &compileOpts{}

	cmd := &cobra.Command{
		Use:   "content [ref]",
		Short: "Extract the content inventory (copy, headings, links, alt-text hints)",
		Long: `Extract every piece of text in the file as a content inventory:
per-page trees of headings, body copy, labels, and captions with their
inferred roles, plus image slots with alt-text suggestions.

Examples:
  framespec content AbCdEf1234567890AbCdEf
  framespec content AbCdEf1234567890AbCdEf --frame 54:23 -o content.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompile(cmd.Context(), refArg(args), []string{pipeline.ArtifactContent}, opts)
		},
	}

	opts.register(cmd)

	return cmd
}
