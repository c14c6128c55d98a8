package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/ralt/m2settings/internal/config"
	"github.com/ralt/m2settings/internal/engine"
	"github.com/ralt/m2settings/internal/models"
	"github.com/ralt/m2settings/internal/repository"
	"github.com/ralt/m2settings/internal/settings"
	"github.com/ralt/m2settings/internal/signer"
	"github.com/ralt/m2settings/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewResolveCmd creates the resolve command
func NewResolveCmd() *cobra.Command {
	var cfg models.ResolveConfig
	var configPath string
	var defines []string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve settings against repository declarations",
		Long: `Loads the settings documents, activates profiles, applies mirrors and
credentials to the repository declarations and writes a YAML report with the
active profiles, profile properties and effective repositories.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := parseDefines(defines)
			if err != nil {
				return err
			}
			cfg.Properties = props

			if configPath != "" {
				logrus.Debugf("Reading configuration from %s", configPath)
				if err := config.Merge(configPath, &cfg, cmd.Flags()); err != nil {
					return err
				}
			}

			if err := validateConfig(&cfg); err != nil {
				return err
			}

			logrus.Debugf("Configuration: %+v", redacted(cfg))

			return runResolve(cmd.OutOrStdout(), &cfg)
		},
	}

	// Settings documents
	cmd.Flags().StringVarP(&cfg.UserSettings, "settings", "s", "", "User settings file (default ~/.m2/settings.xml)")
	cmd.Flags().StringVarP(&cfg.GlobalSettings, "global-settings", "g", "", "Global settings file (default $M2_HOME/conf/settings.xml)")
	cmd.Flags().StringVar(&cfg.SecuritySettings, "security-settings", "", "Security settings file (default ~/.m2/settings-security.xml)")

	// Profile activation
	cmd.Flags().StringSliceVarP(&cfg.ActiveProfiles, "profiles", "P", nil, "Profiles to activate, prefix an id with ! to deactivate it")
	cmd.Flags().StringVar(&cfg.ProjectDir, "project-dir", ".", "Project directory for file activation")
	cmd.Flags().StringArrayVarP(&defines, "define", "D", nil, "Define a property (key=value); java.version defaults to $JAVA_HOME/release")
	cmd.Flags().BoolVar(&cfg.ExportProperties, "export-properties", false, "Make -D properties visible to property activation")

	// Repository declarations
	cmd.Flags().StringVarP(&cfg.RepositoriesFile, "repositories", "r", "", "YAML file with repository declarations")
	cmd.Flags().BoolVar(&cfg.MavenLocal, "maven-local", false, "Declare the local repository")
	cmd.Flags().BoolVar(&cfg.MavenCentral, "maven-central", false, "Declare Maven Central")

	// Output
	cmd.Flags().StringVarP(&cfg.OutputPath, "output", "o", utils.Stdout, "Report file, - for standard output")
	cmd.Flags().BoolVar(&cfg.ShowCredentials, "show-credentials", false, "Write passwords in clear text")

	// GPG signing flags
	cmd.Flags().StringVarP(&cfg.GPGKeyPath, "sign-key", "k", "", "Path to GPG private key used to sign the report")
	cmd.Flags().StringVar(&cfg.GPGPassphrase, "sign-passphrase", "", "GPG key passphrase")

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML configuration file")

	return cmd
}

func parseDefines(defines []string) (map[string]string, error) {
	props := make(map[string]string, len(defines))
	for _, d := range defines {
		key, value, found := strings.Cut(d, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, &models.SettingsError{
				Type: models.ErrInvalidConfig,
				Err:  fmt.Errorf("invalid property definition %q", d),
			}
		}
		if !found {
			// -Dflag behaves like -Dflag=true
			value = "true"
		}
		props[key] = value
	}
	return props, nil
}

func validateConfig(cfg *models.ResolveConfig) error {
	if cfg.GPGKeyPath != "" && (cfg.OutputPath == "" || cfg.OutputPath == utils.Stdout) {
		return &models.SettingsError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("signing requires --output to name a file"),
		}
	}

	if cfg.RepositoriesFile != "" && !utils.FileExists(cfg.RepositoriesFile) {
		return &models.SettingsError{
			Type: models.ErrInvalidConfig,
			Path: cfg.RepositoriesFile,
			Err:  fmt.Errorf("repositories file does not exist"),
		}
	}

	if cfg.ProjectDir == "" {
		cfg.ProjectDir = "."
	}

	return nil
}

func locations(cfg *models.ResolveConfig) settings.Locations {
	loc := settings.DefaultLocations()
	if cfg.UserSettings != "" {
		loc.UserSettings = cfg.UserSettings
	}
	if cfg.GlobalSettings != "" {
		loc.GlobalSettings = cfg.GlobalSettings
	}
	if cfg.SecuritySettings != "" {
		loc.SecuritySettings = cfg.SecuritySettings
	}
	return loc
}

func runResolve(stdout io.Writer, cfg *models.ResolveConfig) error {
	// Step 1: Load repository declarations
	repos := repository.NewList()
	if cfg.RepositoriesFile != "" {
		logrus.Infof("Reading repositories from %s", cfg.RepositoriesFile)
		loaded, err := repository.LoadFile(cfg.RepositoriesFile)
		if err != nil {
			return &models.SettingsError{
				Type: models.ErrInvalidConfig,
				Path: cfg.RepositoriesFile,
				Err:  err,
			}
		}
		repos = loaded
	}

	// Step 2: Resolve. -D definitions are visible as system properties so
	// they can drive jdk and os activation as well.
	systemProps := settings.DefaultProperties()
	for k, v := range cfg.Properties {
		systemProps[k] = v
	}

	loc := locations(cfg)
	props := repository.Properties{}
	result, err := engine.New().Resolve(engine.Request{
		Locations:        loc,
		Profiles:         cfg.ActiveProfiles,
		ProjectDir:       cfg.ProjectDir,
		SystemProperties: systemProps,
		UserProperties:   cfg.Properties,
		ExportProperties: cfg.ExportProperties,
		MavenLocal:       cfg.MavenLocal,
		MavenCentral:     cfg.MavenCentral,
		Repositories:     repos,
		Properties:       props,
	})
	if err != nil {
		return err
	}

	// Step 3: Write the report
	sources := documentSources(map[string]string{
		"global":   loc.GlobalSettings,
		"user":     loc.UserSettings,
		"security": loc.SecuritySettings,
	})
	data, err := newReport(sources, result, props, repos, cfg.ShowCredentials).marshal()
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := utils.WriteOutput(cfg.OutputPath, data, stdout); err != nil {
		return &models.SettingsError{
			Type: models.ErrFileOp,
			Path: cfg.OutputPath,
			Err:  fmt.Errorf("failed to write report: %w", err),
		}
	}

	// Step 4: Sign the report
	if cfg.GPGKeyPath != "" {
		gpgSigner, err := signer.NewGPGSigner(cfg.GPGKeyPath, cfg.GPGPassphrase)
		if err != nil {
			return &models.SettingsError{
				Type: models.ErrSigning,
				Err:  fmt.Errorf("failed to initialize GPG signer: %w", err),
			}
		}
		sigPath, err := signer.SignFile(gpgSigner, cfg.OutputPath)
		if err != nil {
			return err
		}
		logrus.Infof("Report signature written to %s", sigPath)
	}

	logrus.Infof("Resolved %d repositories with %d active profiles", repos.Len(), len(result.ActiveProfiles))

	return nil
}

func redacted(cfg models.ResolveConfig) models.ResolveConfig {
	if cfg.GPGPassphrase != "" {
		cfg.GPGPassphrase = "********"
	}
	return cfg
}
