package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/Conceptual-Machines/music-track-generator/internal/models"
	"github.com/Conceptual-Machines/music-track-generator/internal/presets"
	"github.com/peterbourgon/ff/v3/ffcli"
)

func (a *app) newListPresetsCommand() *ffcli.Command {
	cmd := "list-presets"
	fs := a.newFlagSet(cmd)
	var dir string
	fs.StringVar(&dir, "presets-dir", a.cfg.PresetsDir, "presets directory")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("%s %s [flags]", appName, cmd),
		ShortHelp:  "list all available presets",
		Options:    commandOptions(),
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			store, err := presets.NewStore(dir)
			if err != nil {
				return err
			}
			items, err := store.ListWithMetadata()
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(a.out, "No presets found")
				return nil
			}

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tGENRE\tDESCRIPTION")
			for _, item := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", item.Name, item.Genre, item.Description)
			}
			return tw.Flush()
		},
	}
}

func (a *app) newShowPresetCommand() *ffcli.Command {
	cmd := "show-preset"
	fs := a.newFlagSet(cmd)
	var dir string
	fs.StringVar(&dir, "presets-dir", a.cfg.PresetsDir, "presets directory")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("%s %s [flags] <name>", appName, cmd),
		ShortHelp:  "show details of a preset",
		Options:    commandOptions(),
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return errors.New("exactly one preset name is required")
			}
			store, err := presets.NewStore(dir)
			if err != nil {
				return err
			}
			preset, err := store.Load(args[0])
			if err != nil {
				return err
			}
			a.printPreset(preset)
			return nil
		},
	}
}

func tick(b bool) string {
	if b {
		return "✓"
	}
	return "✗"
}

func (a *app) printPreset(p models.PresetConfig) {
	fmt.Fprintf(a.out, "\n%s\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(a.out, "%s\n", p.Description)
	}
	fmt.Fprintf(a.out, "\nGenre: %s\n", p.Genre)
	fmt.Fprintf(a.out, "Temperature: %g\n", p.Temperature)

	fmt.Fprintln(a.out, "\nStructure:")
	fmt.Fprintf(a.out, "  Intro: %s\n", tick(p.Structure.Intro))
	fmt.Fprintf(a.out, "  Verses: %d\n", p.Structure.VerseCount)
	fmt.Fprintf(a.out, "  Choruses: %d\n", p.Structure.ChorusCount)
	fmt.Fprintf(a.out, "  Bridge: %s\n", tick(p.Structure.Bridge))
	fmt.Fprintf(a.out, "  Outro: %s\n", tick(p.Structure.Outro))

	a.printStyleReferences(p.StyleReferences)
	if p.Tips != "" {
		a.printBlock("Tips", p.Tips)
	}
}

func (a *app) newSavePresetCommand() *ffcli.Command {
	cmd := "save-preset"
	fs := a.newFlagSet(cmd)

	var (
		preset    models.PresetConfig
		structure structureFlags
		dir       string
	)
	styles := &styleFlag{warn: a.out}
	fs.StringVar(&preset.Name, "name", "", "preset name")
	fs.StringVar(&preset.Description, "description", "", "preset description")
	fs.StringVar(&preset.Genre, "genre", "", "music genre")
	registerStructureFlags(fs, &structure)
	fs.Var(styles, "style", "style reference as type:value (repeatable)")
	fs.Float64Var(&preset.Temperature, "temperature", models.DefaultTemperature, "creativity level (0.0-1.0)")
	fs.StringVar(&preset.Tips, "tips", "", "tips for using this preset")
	fs.StringVar(&dir, "presets-dir", a.cfg.PresetsDir, "presets directory")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("%s %s [flags]", appName, cmd),
		ShortHelp:  "save a new preset configuration",
		Options:    commandOptions(),
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			preset.Structure = structure.value()
			preset.StyleReferences = styles.refs.Clone()

			store, err := presets.NewStore(dir)
			if err != nil {
				return err
			}
			path, err := store.Save(preset)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "✓ Preset '%s' saved to %s\n", preset.Name, path)
			return nil
		},
	}
}

func (a *app) newDeletePresetCommand() *ffcli.Command {
	cmd := "delete-preset"
	fs := a.newFlagSet(cmd)
	var (
		dir string
		yes bool
	)
	fs.StringVar(&dir, "presets-dir", a.cfg.PresetsDir, "presets directory")
	fs.BoolVar(&yes, "yes", false, "skip the confirmation prompt")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("%s %s [flags] <name>", appName, cmd),
		ShortHelp:  "delete a preset",
		Options:    commandOptions(),
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return errors.New("exactly one preset name is required")
			}
			name := args[0]

			store, err := presets.NewStore(dir)
			if err != nil {
				return err
			}
			if _, err := store.Load(name); err != nil {
				return err
			}

			if !yes && !a.confirm(fmt.Sprintf("Delete preset '%s'?", name), false) {
				fmt.Fprintln(a.out, "Deletion cancelled")
				return nil
			}

			deleted, err := store.Delete(name)
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("%w: %s", presets.ErrNotFound, name)
			}
			fmt.Fprintf(a.out, "✓ Preset '%s' deleted\n", name)
			return nil
		},
	}
}
