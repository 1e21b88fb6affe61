package main

import (
	"fmt"

	"nodeboot/internal/ui"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

const guideText = `# nodeboot operator guide

## What a bootstrap run does

1. Reads the cluster configuration through jetpack:
   - ` + "`slurm.do_install`" + ` (default ` + "`True`" + `)
   - ` + "`slurm.install_pkg`" + `
   - ` + "`slurm.project_name`" + `
   - ` + "`platform_family`" + `
2. When the install flag is the literal ` + "`True`" + `, downloads and
   unpacks the install package under ` + "`$CYCLECLOUD_HOME/system/bootstrap`" + `
   and runs the packaged installer.
3. Restarts ` + "`munged`" + ` and waits for it to answer a munge/unmunge
   round trip. The wait is best-effort: 61 probes one second apart, and
   the run continues even if the daemon never answers.
4. On execute nodes, starts ` + "`slurmd`" + `. Login nodes never run it.

## Troubleshooting

- ` + "`nodeboot status`" + ` shows the managed daemons and the last run.
- ` + "`nodeboot history`" + ` lists recorded runs with probe counts.
- A run that ends with ` + "`auth_ready=false`" + ` usually means the munge
  key was not in place yet; the daemons typically settle on their own.
- Install failures abort the run immediately and are safe to retry:
  download and unpack are idempotent.
`

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Show the operator guide",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ColorEnabled() {
			fmt.Fprint(cmd.OutOrStdout(), guideText)
			return nil
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			fmt.Fprint(cmd.OutOrStdout(), guideText)
			return nil
		}
		out, err := renderer.Render(guideText)
		if err != nil {
			fmt.Fprint(cmd.OutOrStdout(), guideText)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(guideCmd)
}
