package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ralt/m2settings/internal/models"
	"github.com/ralt/m2settings/internal/pbe"
	"github.com/ralt/m2settings/internal/settings"
	"github.com/spf13/cobra"
)

// NewEncryptCmd creates the encrypt command
func NewEncryptCmd() *cobra.Command {
	var master bool
	var securitySettings string

	cmd := &cobra.Command{
		Use:   "encrypt [password]",
		Short: "Encrypt a password for use in settings documents",
		Long: `Encrypts a server password with the master password of the security
settings document. With --master, encrypts a master password for the
<master> element of settings-security.xml instead.

The password is read from standard input when no argument is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clear, err := readPassword(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			if securitySettings == "" {
				securitySettings = settings.DefaultLocations().SecuritySettings
			}

			out, err := encryptPassword(pbe.New(), clear, master, securitySettings)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().BoolVarP(&master, "master", "m", false, "Encrypt a master password")
	cmd.Flags().StringVar(&securitySettings, "security-settings", "", "Security settings file (default ~/.m2/settings-security.xml)")

	return cmd
}

func readPassword(args []string, in io.Reader) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", &models.SettingsError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("no password given"),
		}
	}
	return line, nil
}

func encryptPassword(c *pbe.Cipher, clear string, master bool, securitySettings string) (string, error) {
	if master {
		return c.EncryptDecorated(clear, pbe.SecurityMasterKey)
	}

	sec, err := settings.ReadSecuritySettings(securitySettings)
	if err != nil {
		return "", &models.SettingsError{
			Type: models.ErrCredentialDecryption,
			Path: securitySettings,
			Err:  err,
		}
	}
	if sec == nil {
		return "", &models.SettingsError{
			Type: models.ErrCredentialDecryption,
			Path: securitySettings,
			Err:  fmt.Errorf("no security settings found, encrypt a master password first with --master"),
		}
	}

	masterPassword, err := sec.MasterPassword(c)
	if err != nil {
		return "", &models.SettingsError{
			Type: models.ErrCredentialDecryption,
			Path: securitySettings,
			Err:  err,
		}
	}

	return c.EncryptDecorated(clear, masterPassword)
}
