package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-blog"
)

// moduleBuilder is swapped in tests.
var moduleBuilder = func(cfg blog.Config) (*blog.Module, error) {
	return blog.New(cfg)
}

type globalFlags struct {
	configFile string
	envFiles   []string
}

type buildFlags struct {
	articles    string
	output      string
	template    string
	templateDir string
	baseURL     string
	workers     int
	dryRun      bool
	strict      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.LookupEnv)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, lookup func(string) (string, bool)) int {
	root := newRootCmd(stdout, lookup)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(stdout io.Writer, lookup func(string) (string, bool)) *cobra.Command {
	global := &globalFlags{}
	build := &buildFlags{}

	root := &cobra.Command{
		Use:           "blog",
		Short:         "Render Markdown articles into static HTML pages",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, stdout, lookup, global, build)
		},
	}
	root.PersistentFlags().StringVar(&global.configFile, "config", "", "YAML config file (defaults to $"+blog.ConfigFileEnv+")")
	root.PersistentFlags().StringSliceVar(&global.envFiles, "env-file", []string{".env"}, "dotenv files read before the environment")
	bindBuildFlags(root, build)

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Build every article in the article directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, stdout, lookup, global, build)
		},
	}
	bindBuildFlags(buildCmd, build)

	var out string
	var overwrite, gfm bool
	importCmd := &cobra.Command{
		Use:   "import <file.html>",
		Short: "Convert a published HTML page back into an article source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global, lookup)
			if err != nil {
				return err
			}
			module, err := moduleBuilder(cfg)
			if err != nil {
				return err
			}
			content, err := module.Import(cmd.Context(), blog.ImportOptions{
				Source:         args[0],
				Output:         out,
				Overwrite:      overwrite,
				GitHubFlavored: gfm,
			})
			if err != nil {
				return err
			}
			if out == "" {
				_, err = stdout.Write(content)
				return err
			}
			fmt.Fprintf(stdout, "Successfully wrote %s\n", out)
			return nil
		},
	}
	importCmd.Flags().StringVarP(&out, "out", "o", "", "write the article source here instead of stdout")
	importCmd.Flags().BoolVar(&overwrite, "force", false, "overwrite an existing --out file")
	importCmd.Flags().BoolVar(&gfm, "gfm", false, "emit GitHub flavored tables and strikethrough")

	root.AddCommand(buildCmd, importCmd)
	return root
}

func bindBuildFlags(cmd *cobra.Command, flags *buildFlags) {
	fs := cmd.Flags()
	fs.StringVar(&flags.articles, "articles", "", "article directory (ARTICLE_DIRECTORY)")
	fs.StringVar(&flags.output, "output", "", "output directory (OUTPUT_DIRECTORY)")
	fs.StringVar(&flags.template, "template", "", "article template file (ARTICLE_TEMPLATE_FILE)")
	fs.StringVar(&flags.templateDir, "template-dir", "", "template directory (TEMPLATE_DIRECTORY)")
	fs.StringVar(&flags.baseURL, "base-url", "", "site base URL (BASE_URL)")
	fs.IntVar(&flags.workers, "workers", 0, "concurrent article renders (GENERATOR_WORKERS)")
	fs.BoolVar(&flags.dryRun, "dry-run", false, "render without writing any file")
	fs.BoolVar(&flags.strict, "strict", false, "fail on malformed metadata blocks")
}

func runBuild(cmd *cobra.Command, stdout io.Writer, lookup func(string) (string, bool), global *globalFlags, flags *buildFlags) error {
	cfg, err := loadConfig(global, lookup)
	if err != nil {
		return err
	}
	applyBuildFlags(cmd, &cfg, flags)

	module, err := moduleBuilder(cfg)
	if err != nil {
		return err
	}

	result, err := module.Build(cmd.Context(), blog.BuildOptions{
		DryRun: flags.dryRun,
		OnWritten: func(path string) {
			fmt.Fprintf(stdout, "Successfully wrote %s\n", path)
		},
	})
	if err != nil {
		return err
	}
	if flags.dryRun && result != nil {
		for _, article := range result.Articles {
			fmt.Fprintf(stdout, "Would write %s\n", article.Output)
		}
	}
	return nil
}

func loadConfig(global *globalFlags, lookup func(string) (string, bool)) (blog.Config, error) {
	return blog.LoadConfig(blog.LoadOptions{
		ConfigFile: global.configFile,
		EnvFiles:   global.envFiles,
		Lookup:     lookup,
	})
}

// applyBuildFlags lets explicitly set flags override every config source.
func applyBuildFlags(cmd *cobra.Command, cfg *blog.Config, flags *buildFlags) {
	set := func(name string) bool { return cmd.Flags().Changed(name) }
	if set("articles") {
		cfg.ArticleDir = strings.TrimSpace(flags.articles)
	}
	if set("output") {
		cfg.OutputDir = strings.TrimSpace(flags.output)
	}
	if set("template") {
		cfg.TemplateFile = strings.TrimSpace(flags.template)
	}
	if set("template-dir") {
		cfg.TemplateDir = strings.TrimSpace(flags.templateDir)
	}
	if set("base-url") {
		cfg.BaseURL = strings.TrimSpace(flags.baseURL)
	}
	if set("workers") {
		cfg.Generator.Workers = flags.workers
	}
	if set("strict") {
		cfg.Metadata.Strict = flags.strict
	}
}
