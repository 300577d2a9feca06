package cmd

import (
	"fmt"

	"github.com/haydenwalker/envseal/internal/audit"
	"github.com/haydenwalker/envseal/internal/config"
	"github.com/haydenwalker/envseal/internal/engine"
	"github.com/haydenwalker/envseal/internal/provider"
	"github.com/haydenwalker/envseal/internal/utils"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var decryptExclude []string

func init() {
	decryptCmd.Flags().StringArrayVar(&decryptExclude, "exclude", nil, "glob pattern (relative to DIR) to skip, repeatable")
}

func resetDecryptCommandState() {
	decryptExclude = nil
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt DIR",
	Short: "Decrypt every .env.gpg file under DIR back to .env",
	Long: `Decrypts every file named .env.gpg under DIR, writing each plaintext to
the path with the .gpg suffix stripped. Existing .env files are
overwritten without confirmation. Decryption needs the matching private
key in your GPG keyring.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting decrypt command")
		spinner, cleanup := startSpinner("Decrypting environment files...")
		defer cleanup()

		cfg, err := config.New(config.Decrypt, args[0], false, "", decryptExclude)
		if err != nil {
			return Logger.ErrorfAndReturn("invalid configuration: %v", err)
		}
		Logger.Debugf("Decrypting under %s", cfg.Directory)

		eng := &engine.Engine{Provider: provider.GPG{}, Logger: Logger}
		res, err := eng.Decrypt(cfg)
		if err != nil {
			return Logger.ErrorfAndReturn("decrypt failed: %v", err)
		}

		audit.Log(audit.Entry{
			Operation: cfg.Mode.String(),
			Root:      cfg.Directory,
			Attempted: res.Attempted,
			Succeeded: res.Succeeded,
		})

		if res.Attempted == 0 {
			spinner.FinalMSG = color.RedString("✗") + " No encrypted environment (" +
				color.YellowString(".env.gpg") + ") files found in " + color.YellowString(cfg.Directory)
			return nil
		}

		if len(res.Failures) > 0 {
			spinner.FinalMSG = color.YellowString("!") +
				fmt.Sprintf(" Decrypted %d of %d environment files; %d failed (see log output)",
					res.Succeeded, res.Attempted, len(res.Failures))
			return nil
		}

		spinner.FinalMSG = color.GreenString("✓") + " Environment files decrypted successfully!\n" +
			"The following files were created: " + utils.FormatPaths(res.Produced) +
			color.CyanString("→") + " Your environment files are now ready to use"
		return nil
	},
}
