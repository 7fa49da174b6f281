package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"dumpx/internal/core/filter"
	"dumpx/internal/core/version"
	"dumpx/internal/modkit"
	"dumpx/internal/modkit/module"
	"dumpx/internal/platform/config"
	perr "dumpx/internal/platform/errors"
	"dumpx/internal/platform/logger"
	pstrings "dumpx/internal/platform/strings"
	"dumpx/internal/services/extract/domain"
	extractmod "dumpx/internal/services/extract/module"

	"github.com/spf13/cobra"
)

// stderr is where usage errors go; logs are configured separately
var stderr io.Writer = os.Stderr

// run executes the command line and returns the process exit status
func run(ctx context.Context, args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "dumpx: %v\n", err)
	}
	return perr.ExitCode(err)
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dumpx INPUT COUNT",
		Short:         "Extract matching posts from a Stack Exchange XML dump",
		Long:          "Streams INPUT (a path, an http(s) URL, or - for stdin; gzip, zstd and bzip2 are detected)\nand stops as soon as COUNT posts pass every filter.",
		Version:       version.Info().String(),
		Args:          exactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts := logger.FromEnv()
			if v, _ := cmd.Flags().GetBool("verbose"); v {
				opts.Level = "debug"
			}
			logger.Init(opts)
		},
		RunE: runExtract,
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return perr.Wrap(err, perr.ErrorCodeConfig, "bad flags")
	})

	f := cmd.Flags()
	f.StringP("output", "o", "", "output file, - for stdout (default extracted_topics.xml or extracted_posts.xml)")
	f.BoolP("verbose", "v", false, "debug logging")
	f.StringP("format", "f", "", "output format: topics | flat (default from DUMPX_EXTRACT_FORMAT)")
	f.String("profile", "", "YAML filter profile; explicit flags override it")
	f.String("fields", "", "flat format only: comma-separated attributes to keep, in order")

	f.Int("min-year", 0, "keep posts created in or after this year")
	f.Int("max-year", 0, "keep posts created in or before this year")
	f.String("years", "", "keep posts created in one of these years, e.g. 2015,2018")
	f.Bool("questions-only", false, "keep questions only")
	f.Bool("answers-only", false, "keep answers only")
	f.Int("min-score", 0, "keep posts with at least this score")
	f.Int("max-score", 0, "keep posts with at most this score")
	f.Int("min-answers", 0, "keep questions with at least this many answers")
	f.Int("min-views", 0, "keep questions with at least this many views")
	f.Bool("has-accepted", false, "keep questions with an accepted answer")
	f.Bool("no-accepted", false, "keep questions without an accepted answer")
	f.String("include-tags", "", "keep posts carrying any of these tags (comma-separated, case-insensitive)")
	f.String("exclude-tags", "", "drop posts carrying any of these tags")
	return cmd
}

// exactArgs is cobra.ExactArgs with a configuration error code
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return perr.Wrap(err, perr.ErrorCodeConfig, "usage: "+cmd.Use)
		}
		return nil
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	req, err := requestFromCmd(cmd, args)
	if err != nil {
		return err
	}
	m := extractmod.New(modkit.Deps{Log: logger.Named("extract"), Cfg: config.New()})
	runner := module.MustPortsOf[domain.RunnerPort](m)
	_, err = runner.Run(cmd.Context(), req)
	return err
}

// requestFromCmd merges the profile, flags and positional args into one request
func requestFromCmd(cmd *cobra.Command, args []string) (domain.Request, error) {
	f := cmd.Flags()

	target, err := strconv.Atoi(args[1])
	if err != nil {
		return domain.Request{}, perr.WithField(perr.Configf("COUNT must be an integer, got %q", args[1]), "target")
	}

	var base filter.Config
	if path, _ := f.GetString("profile"); path != "" {
		if base, err = filter.LoadProfile(path); err != nil {
			return domain.Request{}, err
		}
	}

	over := filter.Config{Target: target}
	intFlag := func(name string) *int {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetInt(name)
		return &v
	}
	over.MinYear = intFlag("min-year")
	over.MaxYear = intFlag("max-year")
	over.MinScore = intFlag("min-score")
	over.MaxScore = intFlag("max-score")
	over.MinAnswers = intFlag("min-answers")
	over.MinViews = intFlag("min-views")
	over.QuestionsOnly, _ = f.GetBool("questions-only")
	over.AnswersOnly, _ = f.GetBool("answers-only")
	over.HasAccepted, _ = f.GetBool("has-accepted")
	over.NoAccepted, _ = f.GetBool("no-accepted")

	years, _ := f.GetString("years")
	if over.Years, err = pstrings.ParseInts(years); err != nil {
		return domain.Request{}, perr.WithField(perr.Wrap(err, perr.ErrorCodeConfig, "bad --years"), "years")
	}
	inc, _ := f.GetString("include-tags")
	exc, _ := f.GetString("exclude-tags")
	over.IncludeTags = pstrings.SplitCSV(inc)
	over.ExcludeTags = pstrings.SplitCSV(exc)

	output, _ := f.GetString("output")
	format, _ := f.GetString("format")
	fields, _ := f.GetString("fields")

	return domain.Request{
		Input:  args[0],
		Output: output,
		Format: format,
		Fields: pstrings.SplitCSV(fields),
		Filter: base.Override(over),
	}, nil
}
