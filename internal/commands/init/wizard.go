// Package initcmd implements the interactive `catalog init` wizard.
package initcmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/colonyops/catalog/internal/core/config"
	"github.com/colonyops/catalog/internal/core/fetch"
	"github.com/colonyops/catalog/internal/core/styles"
	"github.com/colonyops/catalog/internal/printer"
)

// WizardOptions configures the wizard behavior.
type WizardOptions struct {
	ConfigPath string
	DataDir    string
	Yes        bool // skip prompts, use defaults
	Force      bool // overwrite existing config
}

// Wizard orchestrates the init process.
type Wizard struct {
	opts WizardOptions
}

// NewWizard creates a new init wizard.
func NewWizard(opts WizardOptions) *Wizard {
	return &Wizard{opts: opts}
}

// Answers holds the values collected by the form.
type Answers struct {
	BaseURL   string
	Path      string
	Interval  string
	Theme     string
	ExpandAll bool
}

// DefaultAnswers returns the answers used with --yes.
func DefaultAnswers() Answers {
	d := config.DefaultConfig()
	return Answers{
		BaseURL:   d.Source.BaseURL,
		Path:      d.Source.Path,
		Interval:  "0s",
		Theme:     d.TUI.Theme,
		ExpandAll: d.TUI.ExpandAll,
	}
}

// Config converts the answers into a validated configuration.
func (a Answers) Config(dataDir string) (config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.DataDir = dataDir
	cfg.Source.BaseURL = a.BaseURL
	cfg.Source.Path = a.Path
	cfg.TUI.Theme = a.Theme
	cfg.TUI.ExpandAll = a.ExpandAll

	iv, err := time.ParseDuration(a.Interval)
	if err != nil {
		return cfg, fmt.Errorf("refresh interval: %w", err)
	}
	cfg.Refresh.Interval = config.Duration(iv)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Run executes the wizard.
func (w *Wizard) Run(ctx context.Context) error {
	p := printer.Ctx(ctx)

	if configExists(w.opts.ConfigPath) && !w.opts.Force {
		if w.opts.Yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(w.opts.ConfigPath + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			p.Infof("Init cancelled")
			return nil
		}
	}

	answers := DefaultAnswers()
	if !w.opts.Yes {
		if err := promptUser(&answers); err != nil {
			return err
		}
	}

	cfg, err := answers.Config(w.opts.DataDir)
	if err != nil {
		return fmt.Errorf("invalid answers: %w", err)
	}

	backupPath, err := backupConfig(w.opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("backup config: %w", err)
	}
	if backupPath != "" {
		p.Successf("Backed up previous config to: %s", backupPath)
	}

	if err := WriteConfig(&cfg, w.opts.ConfigPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	p.Successf("Wrote config to: %s", w.opts.ConfigPath)

	p.Printf("")
	p.Section("Next Steps")
	p.Printf("  1. Run 'catalog config validate' to check the endpoint")
	p.Printf("  2. Run 'catalog' to browse the item lists")
	return nil
}

func configExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// backupConfig copies the config at path to path.bak, replacing an older
// backup, and keeps the original file mode. It returns "" when there is no
// config to back up.
func backupConfig(path string) (string, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	backupPath := path + ".bak"
	if err := os.WriteFile(backupPath, content, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("write %s: %w", backupPath, err)
	}
	// WriteFile keeps the mode of an existing backup.
	if err := os.Chmod(backupPath, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("chmod %s: %w", backupPath, err)
	}
	return backupPath, nil
}

func promptUser(a *Answers) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Base URL").
				Description("Server the item list is fetched from").
				Value(&a.BaseURL).
				Validate(func(s string) error {
					_, err := fetch.ResolveEndpoint(s, "")
					return err
				}),
			huh.NewInput().
				Title("Path").
				Description("Resolved against the base URL").
				Value(&a.Path),
			huh.NewInput().
				Title("Refresh interval").
				Description("Periodic refresh while the TUI is open (0s disables)").
				Value(&a.Interval).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Options(huh.NewOptions(styles.ThemeNames()...)...).
				Value(&a.Theme),
			huh.NewConfirm().
				Title("Expand every list on start?").
				Value(&a.ExpandAll),
		),
	)
	return form.Run()
}

// WriteConfig encodes cfg as YAML at path, creating parent directories.
func WriteConfig(cfg *config.Config, path string) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
