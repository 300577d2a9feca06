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

var (
	encryptRecipient string
	encryptExclude   []string
)

func init() {
	encryptCmd.Flags().StringVarP(&encryptRecipient, "recipient", "r", "", "GPG identity the files are encrypted for")
	encryptCmd.Flags().StringArrayVar(&encryptExclude, "exclude", nil, "glob pattern (relative to DIR) to skip, repeatable")
}

func resetEncryptCommandState() {
	encryptRecipient = ""
	encryptExclude = nil
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt DIR",
	Short: "Encrypt every .env file under DIR to a sibling .env.gpg",
	Long: `Encrypts every file named .env under DIR for the given GPG recipient,
writing each ciphertext to a sibling .env.gpg. The plaintext files are
left in place; run clean afterwards to remove them. When DIR is a git
repository root, its .gitignore is updated so *.gpg files are never
committed.

The recipient comes from --recipient or from the recipient key of an
.envseal.toml file at DIR.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting encrypt command")
		spinner, cleanup := startSpinner("Encrypting environment files...")
		defer cleanup()

		cfg, err := config.New(config.Encrypt, args[0], false, encryptRecipient, encryptExclude)
		if err != nil {
			return Logger.ErrorfAndReturn("invalid configuration: %v", err)
		}
		Logger.Debugf("Encrypting under %s for recipient %s", cfg.Directory, cfg.Recipient)

		eng := &engine.Engine{Provider: provider.GPG{}, Logger: Logger}
		res, err := eng.Encrypt(cfg)
		if err != nil {
			return Logger.ErrorfAndReturn("encrypt failed: %v", err)
		}

		audit.Log(audit.Entry{
			Operation: cfg.Mode.String(),
			Root:      cfg.Directory,
			Attempted: res.Attempted,
			Succeeded: res.Succeeded,
		})

		if res.Attempted == 0 {
			spinner.FinalMSG = color.RedString("✗") + " No " + color.YellowString(".env") +
				" files found in " + color.YellowString(cfg.Directory)
			return nil
		}

		if len(res.Failures) > 0 {
			spinner.FinalMSG = color.YellowString("!") +
				fmt.Sprintf(" Encrypted %d of %d environment files; %d failed (see log output)",
					res.Succeeded, res.Attempted, len(res.Failures))
			return nil
		}

		spinner.FinalMSG = color.GreenString("✓") + " Environment files encrypted successfully!\n" +
			"The following files were created: " + utils.FormatPaths(res.Produced) +
			color.CyanString("→") + " You can now safely commit all " + color.YellowString(".env.gpg") +
			" files to version control"
		return nil
	},
}
