package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/climate-guardian/lessonkit/engine/render"
)

// RenderCmd renders one lesson file to slideshow markup on stdout (or a
// file via --output). Rendering itself never fails on incomplete content;
// only unreadable or non-JSON input is an error.
func RenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <lesson-file>",
		Short: "Render a lesson file to slideshow markup",
		Args:  cobra.ExactArgs(1),
		RunE:  runRender,
	}
	cmd.Flags().StringP("output", "o", "", "Write markup to a file instead of stdout")
	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read lesson file %s: %w", args[0], err)
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("lesson file %s is not valid JSON", args[0])
	}
	markup := render.Slides(data)

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	if output == "" {
		fmt.Fprint(cmd.OutOrStdout(), markup)
		return nil
	}
	if err := os.WriteFile(output, []byte(markup), 0o644); err != nil {
		return fmt.Errorf("failed to write markup to %s: %w", output, err)
	}
	return nil
}
