package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/framespec/pkg/pipeline"
)

// planCommand creates the plan command for generating the implementation
// checklist.
func (c *CLI) planCommand() *cobra.Command {
	opts := &compileOpts{}

	cmd := &cobra.Command{
		Use:   "plan [ref]",
		Short: "Generate the checkbox implementation plan",
		Long: `Generate the implementation plan: an ordered markdown checklist a
coding agent works through section by section, with the universal rules
(exact colors, exact copy, asset paths) stated once up front.

Examples:
  framespec plan AbCdEf1234567890AbCdEf
  framespec plan AbCdEf1234567890AbCdEf -o implementation-plan.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompile(cmd.Context(), refArg(args), []string{pipeline.ArtifactPlan}, opts)
		},
	}

	opts.register(cmd)

	return cmd
}
