package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/Conceptual-Machines/music-track-generator/internal/generator"
	"github.com/Conceptual-Machines/music-track-generator/internal/metrics"
	"github.com/Conceptual-Machines/music-track-generator/internal/models"
	"github.com/Conceptual-Machines/music-track-generator/internal/observability"
	"github.com/Conceptual-Machines/music-track-generator/internal/presets"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type generateFlags struct {
	text        string
	genre       string
	duration    int
	preset      string
	output      string
	structure   structureFlags
	styles      styleFlag
	temperature float64
	mode        string
	project     string
	region      string
	credentials string
	presetsDir  string
	yes         bool
}

func (a *app) newGenerateCommand() *ffcli.Command {
	cmd := "generate"
	fs := a.newFlagSet(cmd)

	f := &generateFlags{styles: styleFlag{warn: a.out}}
	fs.StringVar(&f.text, "text", "", "lyrics or text description for the track")
	fs.StringVar(&f.genre, "genre", "", "music genre, e.g. rock, jazz, electronic (required without --preset)")
	fs.IntVar(&f.duration, "duration", models.DefaultDurationSeconds,
		fmt.Sprintf("duration in seconds (%d-%d)", models.MinDurationSeconds, models.MaxDurationSeconds))
	fs.StringVar(&f.preset, "preset", "", "use a stored preset")
	fs.StringVar(&f.output, "output", "", "output file path; result metadata is written next to it")
	registerStructureFlags(fs, &f.structure)
	fs.Var(&f.styles, "style", "style reference as type:value (repeatable)")
	fs.Float64Var(&f.temperature, "temperature", models.DefaultTemperature, "creativity level (0.0-1.0)")
	fs.StringVar(&f.mode, "mode", a.cfg.Mode, "generator mode (simulate, gcp)")
	fs.StringVar(&f.project, "project", a.cfg.GoogleCloudProject, "GCP project id")
	fs.StringVar(&f.region, "region", a.cfg.GoogleCloudRegion, "GCP region")
	fs.StringVar(&f.credentials, "credentials", a.cfg.GoogleApplicationCredentials, "path to GCP service account JSON")
	fs.StringVar(&f.presetsDir, "presets-dir", a.cfg.PresetsDir, "presets directory")
	fs.BoolVar(&f.yes, "yes", false, "skip the confirmation prompt")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("%s %s [flags]", appName, cmd),
		ShortHelp:  "generate a music track",
		Options:    commandOptions(),
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			return a.runGenerate(ctx, fs, f)
		},
	}
}

func (a *app) runGenerate(ctx context.Context, fs *flag.FlagSet, f *generateFlags) error {
	trackCfg, err := a.trackConfig(fs, f)
	if err != nil {
		return err
	}

	a.printTrackConfig(trackCfg)

	gen, err := generator.New(ctx, generator.Options{
		Mode:            f.mode,
		ProjectID:       f.project,
		Location:        f.region,
		CredentialsPath: f.credentials,
		Tracer:          observability.NewLangfuseClient(ctx, a.cfg),
		Metrics:         metrics.NewRecorder(nil),
	})
	if err != nil {
		return err
	}

	cost := gen.EstimateCost(trackCfg)
	fmt.Fprintf(a.out, "\nEstimated cost: $%.4f USD\n", cost.EstimatedTotalUSD)

	if !f.yes && !a.confirm("Proceed with generation?", true) {
		fmt.Fprintln(a.out, "Generation cancelled")
		return nil
	}

	result, err := gen.Generate(ctx, trackCfg, f.output)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "\n✓ Track generation completed!")
	fmt.Fprintf(a.out, "Status: %s\n", result.Status)
	fmt.Fprintf(a.out, "\n%s\n", result.Message)
	if result.MetadataPath != "" {
		fmt.Fprintf(a.out, "\nMetadata saved to: %s\n", result.MetadataPath)
	}
	return nil
}

// trackConfig assembles the configuration from flags, starting from the
// preset when one is named. Structure, style references and temperature
// flags replace the preset's values wholesale; the preset genre always wins.
func (a *app) trackConfig(fs *flag.FlagSet, f *generateFlags) (models.TrackConfig, error) {
	set := setFlags(fs)

	cfg := models.TrackConfig{
		TextInput:       f.text,
		Genre:           f.genre,
		DurationSeconds: f.duration,
		Structure:       f.structure.value(),
		StyleReferences: f.styles.refs.Clone(),
		Temperature:     f.temperature,
	}

	if f.preset == "" {
		v := models.NewValidator("")
		v.Required("genre", f.genre)
		cfg.ValidateInto(v)
		return cfg, v.Err()
	}

	store, err := presets.NewStore(f.presetsDir)
	if err != nil {
		return models.TrackConfig{}, err
	}
	preset, err := store.Load(f.preset)
	if err != nil {
		return models.TrackConfig{}, err
	}

	fmt.Fprintf(a.out, "Using preset: %s\n", preset.Name)
	if preset.Description != "" {
		fmt.Fprintln(a.out, preset.Description)
	}
	if preset.Tips != "" {
		a.printBlock("Tips", preset.Tips)
	}

	cfg.Genre = preset.Genre
	if !f.structure.changed(set) {
		cfg.Structure = preset.Structure
	}
	if len(f.styles.refs) == 0 {
		cfg.StyleReferences = preset.StyleReferences.Clone()
	}
	if !set["temperature"] {
		cfg.Temperature = preset.Temperature
	}

	if err := cfg.Validate(); err != nil {
		return models.TrackConfig{}, err
	}
	return cfg, nil
}

func (a *app) printTrackConfig(cfg models.TrackConfig) {
	fmt.Fprintln(a.out, "\nTrack Configuration:")
	fmt.Fprintf(a.out, "Genre: %s\n", cfg.Genre)
	fmt.Fprintf(a.out, "Duration: %ds (%dm %ds)\n", cfg.DurationSeconds, cfg.DurationSeconds/60, cfg.DurationSeconds%60)
	fmt.Fprintf(a.out, "Temperature: %g\n", cfg.Temperature)
	a.printStyleReferences(cfg.StyleReferences)
	a.printBlock("Text Input", cfg.TextInput)
}
