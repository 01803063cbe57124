package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/alecthomas/kong"
	"github.com/jaxxstorm/gitversioning"
	"go.uber.org/zap"
)

// Version will be set by build process
var Version = "dev"

type CLI struct {
	Path           string  `arg:"" optional:"" type:"path" help:"Path inside the repository (default: current directory)"`
	Config         string  `short:"c" type:"path" help:"Rule file (default: first of .git-versioning.{yml,yaml,toml} or .mvn/maven-git-versioning-extension.xml)"`
	Branch         *string `short:"b" help:"Branch name override, e.g. from CI; empty means detached (env: VERSIONING_GIT_BRANCH)"`
	Tag            *string `short:"t" help:"Tag name override, e.g. from CI; empty means no tags (env: VERSIONING_GIT_TAG)"`
	Artifact       string  `short:"a" default:"project" help:"Artifact id used in log messages"`
	ProjectVersion string  `short:"p" help:"Version declared by the build descriptor"`
	JSON           bool    `short:"j" xor:"output" help:"Output as JSON"`
	Properties     bool    `xor:"output" help:"Output build properties as key=value lines"`
	Verbose        bool    `short:"v" help:"Log every message, including debug output"`
	ShowVersion    bool    `help:"Show version information" name:"version"`

	out io.Writer
}

func main() {
	var cli CLI

	kong.Parse(&cli,
		kong.Name("git-versioning"),
		kong.Description("Derive a project version from the Git branch, tag or commit"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": Version,
		},
	)

	err := cli.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (c *CLI) Run() error {
	if c.ShowVersion {
		return c.showVersion()
	}

	log, err := gitversioning.NewProductionMessageLog(c.Verbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	return c.resolveVersion(log)
}

func (c *CLI) stdout() io.Writer {
	if c.out != nil {
		return c.out
	}
	return os.Stdout
}

func (c *CLI) showVersion() error {
	versionInfo := map[string]string{
		"version": Version,
		"name":    "git-versioning",
	}

	if c.JSON {
		return json.NewEncoder(c.stdout()).Encode(versionInfo)
	}

	fmt.Fprintf(c.stdout(), "git-versioning version %s\n", Version)
	return nil
}

func (c *CLI) resolveVersion(log *gitversioning.MessageLog) error {
	repoPath := c.Path
	if repoPath == "" {
		var err error
		repoPath, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
	}

	repo, err := gitversioning.OpenRepository(repoPath)
	if err != nil {
		// Outside a repository the declared version is kept as is
		if c.ProjectVersion == "" {
			return fmt.Errorf("opening repository: %w", err)
		}
		log.Warn("skip - project is not part of a git repository")
		return c.print(&gitversioning.ProjectVersion{Version: c.ProjectVersion})
	}

	root := repoPath
	if workTree, err := repo.Worktree(); err == nil {
		root = workTree.Filesystem.Root()
	}

	config, err := c.loadConfiguration(root, log)
	if err != nil {
		return err
	}

	session, err := gitversioning.NewSession(
		gitversioning.GitSituationProvider{Repository: repo},
		config,
		c.overrides(),
		log,
	)
	if err != nil {
		return err
	}

	pv, err := session.ResolveProject(gitversioning.Project{
		ArtifactID: c.Artifact,
		Version:    c.ProjectVersion,
	})
	if err != nil {
		return err
	}

	return c.print(pv)
}

// overrides prefers the command line over the environment. A variable that
// is set but empty still counts as provided.
func (c *CLI) overrides() gitversioning.Overrides {
	return gitversioning.Overrides{
		Branch: option(c.Branch, "VERSIONING_GIT_BRANCH"),
		Tag:    option(c.Tag, "VERSIONING_GIT_TAG"),
	}
}

func option(flag *string, env string) *string {
	if flag != nil {
		return flag
	}
	if value, ok := os.LookupEnv(env); ok {
		return &value
	}
	return nil
}

// loadConfiguration reads the rule file given on the command line, or looks
// for one in root.
func (c *CLI) loadConfiguration(root string, log *gitversioning.MessageLog) (gitversioning.Configuration, error) {
	if c.Config != "" {
		if _, err := os.Stat(c.Config); errors.Is(err, fs.ErrNotExist) {
			return gitversioning.Configuration{}, fmt.Errorf("configuration file %s does not exist", c.Config)
		}
		return gitversioning.LoadConfiguration(c.Config)
	}

	config, path, err := gitversioning.LoadConfigurationFromDir(root)
	if err != nil {
		return gitversioning.Configuration{}, err
	}
	if path == "" {
		log.Debug("no configuration file found, using commit versions", zap.String("root", root))
	} else {
		log.Debug("loaded configuration", zap.String("path", path))
	}
	return config, nil
}

func (c *CLI) print(pv *gitversioning.ProjectVersion) error {
	out := c.stdout()

	switch {
	case c.JSON:
		return json.NewEncoder(out).Encode(pv)
	case c.Properties:
		props := pv.Properties()
		for _, key := range pv.SortedPropertyKeys() {
			fmt.Fprintf(out, "%s=%s\n", key, props[key])
		}
		return nil
	default:
		fmt.Fprintln(out, pv.Version)
		return nil
	}
}
