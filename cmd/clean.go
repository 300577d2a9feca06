package cmd

import (
	"fmt"

	"github.com/haydenwalker/envseal/internal/audit"
	"github.com/haydenwalker/envseal/internal/config"
	"github.com/haydenwalker/envseal/internal/engine"
	"github.com/haydenwalker/envseal/internal/provider"
	"github.com/haydenwalker/envseal/internal/ui"
	"github.com/haydenwalker/envseal/internal/utils"

	"github.com/spf13/cobra"
)

var (
	cleanForce   bool
	cleanExclude []string
)

func init() {
	cleanCmd.Flags().BoolVarP(&cleanForce, "force", "f", false, "delete without asking for confirmation")
	cleanCmd.Flags().StringArrayVar(&cleanExclude, "exclude", nil, "glob pattern (relative to DIR) to skip, repeatable")
}

func resetCleanCommandState() {
	cleanForce = false
	cleanExclude = nil
}

var cleanCmd = &cobra.Command{
	Use:   "clean DIR",
	Short: "Delete every plaintext .env file under DIR",
	Long: `Deletes the plaintext .env files under DIR, normally after their
contents have been encrypted. The full list of files is shown first and
nothing is deleted until you confirm with y or yes, unless --force is
given. Any other answer cancels the whole operation.

Deleted files cannot be recovered; make sure the matching .env.gpg
files exist and decrypt before cleaning.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting clean command")

		cfg, err := config.New(config.Clean, args[0], cleanForce, "", cleanExclude)
		if err != nil {
			return Logger.ErrorfAndReturn("invalid configuration: %v", err)
		}
		Logger.Debugf("Cleaning under %s (force=%t)", cfg.Directory, cfg.Force)

		if !cfg.Force && !utils.IsTerminal() {
			Logger.Warnf("stdin is not a terminal; reading confirmation from piped input")
		}

		eng := &engine.Engine{Provider: provider.GPG{}, Logger: Logger}
		res, err := eng.Clean(cfg)
		if err != nil {
			return Logger.ErrorfAndReturn("clean failed: %v", err)
		}

		audit.Log(audit.Entry{
			Operation: cfg.Mode.String(),
			Root:      cfg.Directory,
			Attempted: res.Attempted,
			Succeeded: res.Succeeded,
			Cancelled: res.Cancelled,
		})

		switch {
		case res.Cancelled:
			fmt.Println(ui.Info.Sprint("→") + " Aborted. No files were deleted.")
		case res.Attempted == 0:
			fmt.Println(ui.Success.Sprint("✓") + " No " + ui.Path.Sprint(".env") + " files found. Nothing to clean.")
		case len(res.Failures) > 0:
			fmt.Printf("%s Deleted %d of %d file(s); %d failed (see log output)\n",
				ui.Warning.Sprint("!"), res.Succeeded, res.Attempted, len(res.Failures))
		default:
			fmt.Printf("%s Deleted %d file(s)\n", ui.Success.Sprint("✓"), res.Succeeded)
		}
		return nil
	},
}
