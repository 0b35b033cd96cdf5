package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/Conceptual-Machines/music-track-generator/internal/config"
	"github.com/Conceptual-Machines/music-track-generator/internal/models"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/peterbourgon/ff/v3/ffyaml"
)

const (
	appName      = "music-gen"
	envVarPrefix = "MUSIC_GEN"
)

type app struct {
	cfg     *config.Config
	version string
	in      *bufio.Reader
	out     io.Writer
}

// New builds the root command. Flag defaults come from cfg; prompts read from
// in and everything user-facing is written to out.
func New(cfg *config.Config, version string, in io.Reader, out io.Writer) *ffcli.Command {
	a := &app{
		cfg:     cfg,
		version: version,
		in:      bufio.NewReader(in),
		out:     out,
	}

	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(out)

	return &ffcli.Command{
		ShortUsage: appName + " [flags] <subcommand>",
		ShortHelp:  "generate music tracks from structured descriptions",
		FlagSet:    fs,
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
		Subcommands: []*ffcli.Command{
			a.newVersionCommand(),
			a.newGenerateCommand(),
			a.newListPresetsCommand(),
			a.newShowPresetCommand(),
			a.newSavePresetCommand(),
			a.newDeletePresetCommand(),
			a.newSetupCommand(),
		},
	}
}

func (a *app) newVersionCommand() *ffcli.Command {
	return &ffcli.Command{
		Name:       "version",
		ShortUsage: appName + " version",
		ShortHelp:  "print version",
		Exec: func(ctx context.Context, args []string) error {
			v := a.version
			if v == "" {
				if buildInfo, ok := debug.ReadBuildInfo(); ok {
					v = buildInfo.Main.Version
				}
			}
			if v == "" || v == "(devel)" {
				v = "dev"
			}
			fmt.Fprintln(a.out, v)
			return nil
		},
	}
}

func (a *app) newFlagSet(cmd string) *flag.FlagSet {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(a.out)
	_ = fs.String("config", "", "config file (optional)")
	return fs
}

func commandOptions() []ff.Option {
	return []ff.Option{
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ffyaml.Parser),
		ff.WithIgnoreUndefined(true),
		ff.WithEnvVarPrefix(envVarPrefix),
	}
}

// setFlags returns the names of flags given on the command line, in the
// config file or through the environment.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

type structureFlags struct {
	intro    bool
	verses   int
	choruses int
	bridge   bool
	outro    bool
}

var structureFlagNames = []string{"intro", "verses", "choruses", "bridge", "outro"}

func registerStructureFlags(fs *flag.FlagSet, s *structureFlags) {
	d := models.DefaultSongStructure()
	fs.BoolVar(&s.intro, "intro", d.Intro, "include intro section")
	fs.IntVar(&s.verses, "verses", d.VerseCount, fmt.Sprintf("number of verses (%d-%d)", models.MinVerseCount, models.MaxVerseCount))
	fs.IntVar(&s.choruses, "choruses", d.ChorusCount, fmt.Sprintf("number of choruses (%d-%d)", models.MinChorusCount, models.MaxChorusCount))
	fs.BoolVar(&s.bridge, "bridge", d.Bridge, "include bridge section")
	fs.BoolVar(&s.outro, "outro", d.Outro, "include outro section")
}

func (s structureFlags) value() models.SongStructure {
	return models.SongStructure{
		Intro:       s.intro,
		VerseCount:  s.verses,
		ChorusCount: s.choruses,
		Bridge:      s.bridge,
		Outro:       s.outro,
	}
}

func (s structureFlags) changed(set map[string]bool) bool {
	for _, name := range structureFlagNames {
		if set[name] {
			return true
		}
	}
	return false
}

// styleFlag collects repeated type:value tokens. Tokens without a colon are
// reported and skipped.
type styleFlag struct {
	refs models.StyleReferences
	warn io.Writer
}

func (s *styleFlag) String() string {
	if s == nil {
		return ""
	}
	parts := make([]string, 0, len(s.refs))
	for _, ref := range s.refs {
		parts = append(parts, ref.Type+":"+ref.Value)
	}
	return strings.Join(parts, ",")
}

func (s *styleFlag) Set(value string) error {
	kind, val, ok := strings.Cut(value, ":")
	if !ok {
		if s.warn != nil {
			fmt.Fprintf(s.warn, "Warning: Invalid style format '%s', expected 'type:value'\n", value)
		}
		return nil
	}
	s.refs = append(s.refs, models.StyleReference{
		Type:  strings.TrimSpace(kind),
		Value: strings.TrimSpace(val),
	})
	return nil
}

func (a *app) readLine() string {
	line, _ := a.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// confirm asks a yes/no question. Empty or unrecognized answers pick def.
func (a *app) confirm(question string, def bool) bool {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	fmt.Fprintf(a.out, "%s %s: ", question, hint)

	switch strings.ToLower(a.readLine()) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return def
	}
}

// ask prompts for a value, returning def on an empty answer
func (a *app) ask(question, def string) string {
	if def != "" {
		fmt.Fprintf(a.out, "%s (%s): ", question, def)
	} else {
		fmt.Fprintf(a.out, "%s: ", question)
	}
	if answer := a.readLine(); answer != "" {
		return answer
	}
	return def
}

func (a *app) printStyleReferences(refs models.StyleReferences) {
	if len(refs) == 0 {
		return
	}
	fmt.Fprintln(a.out, "\nStyle References:")
	for _, ref := range refs {
		fmt.Fprintf(a.out, "  • %s: %s\n", ref.Type, ref.Value)
	}
}

func (a *app) printBlock(title, body string) {
	fmt.Fprintf(a.out, "\n%s:\n", title)
	for _, line := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
		fmt.Fprintf(a.out, "  %s\n", line)
	}
}
