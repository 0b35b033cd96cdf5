package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3/ffcli"
)

const (
	envProject     = "GOOGLE_CLOUD_PROJECT"
	envCredentials = "GOOGLE_APPLICATION_CREDENTIALS"
)

func (a *app) newSetupCommand() *ffcli.Command {
	cmd := "setup"
	fs := a.newFlagSet(cmd)
	var envFile string
	fs.StringVar(&envFile, "env-file", ".env", "environment file to write")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("%s %s [flags]", appName, cmd),
		ShortHelp:  "interactive setup wizard for GCP credentials",
		Options:    commandOptions(),
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			return a.runSetup(envFile)
		},
	}
}

// runSetup asks for the project and credentials and merges them into
// envFile. Unrelated keys already in the file are kept.
func (a *app) runSetup(envFile string) error {
	fmt.Fprintln(a.out, "Music Track Generator Setup")
	fmt.Fprintln(a.out, "This wizard will help you configure GCP credentials.")

	if a.cfg.GoogleCloudProject != "" && a.cfg.GoogleApplicationCredentials != "" {
		fmt.Fprintln(a.out, "\n✓ GCP credentials already configured")
		fmt.Fprintf(a.out, "  Project ID: %s\n", a.cfg.GoogleCloudProject)
		fmt.Fprintf(a.out, "  Credentials: %s\n", a.cfg.GoogleApplicationCredentials)
		if !a.confirm("Reconfigure?", false) {
			return nil
		}
	}

	fmt.Fprintln(a.out, "\nStep 1: GCP Project ID")
	project := a.ask("Enter your GCP project ID", a.cfg.GoogleCloudProject)

	fmt.Fprintln(a.out, "\nStep 2: Service Account Credentials")
	fmt.Fprintln(a.out, "You can either:")
	fmt.Fprintln(a.out, "  1. Provide path to a service account JSON file")
	fmt.Fprintln(a.out, "  2. Use Application Default Credentials (ADC)")

	var credentials string
	if a.confirm("Use service account JSON file?", true) {
		credentials = a.ask("Enter path to service account JSON", a.cfg.GoogleApplicationCredentials)
	} else {
		fmt.Fprintln(a.out, "Using Application Default Credentials")
		fmt.Fprintln(a.out, "Make sure you've run: gcloud auth application-default login")
	}

	env, err := godotenv.Read(envFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to read %s: %w", envFile, err)
		}
		env = map[string]string{}
	}

	env[envProject] = project
	if credentials != "" {
		env[envCredentials] = credentials
	} else {
		delete(env, envCredentials)
	}

	if err := godotenv.Write(env, envFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", envFile, err)
	}

	fmt.Fprintf(a.out, "\n✓ Configuration saved to %s\n", envFile)
	fmt.Fprintln(a.out, "\nNext steps:")
	fmt.Fprintf(a.out, "  1. Run: %s list-presets\n", appName)
	fmt.Fprintf(a.out, "  2. Try: %s generate --text 'Your lyrics' --preset rock_anthem\n", appName)
	return nil
}
