package commands

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockcheck-dev/stockcheck/internal/config"
	"github.com/stockcheck-dev/stockcheck/internal/gitops"
	"github.com/stockcheck-dev/stockcheck/internal/inventory"
	"github.com/stockcheck-dev/stockcheck/internal/logging"
)

// envFile is read from the project root before STOCKCHECK_* overrides apply.
const envFile = ".env"

// project is a loaded stockcheck working directory.
type project struct {
	root   string
	cfg    *config.Config
	loc    *time.Location
	logger *slog.Logger
}

func openProject(repoDir string, logOut io.Writer) (*project, error) {
	root, err := filepath.Abs(repoDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.LoadWithEnv(filepath.Join(root, config.FileName), filepath.Join(root, envFile))
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	return &project{
		root:   root,
		cfg:    cfg,
		loc:    loc,
		logger: logging.New(cfg.Logging, logOut),
	}, nil
}

func (p *project) author() gitops.Author {
	return gitops.Author{Name: p.cfg.Git.AuthorName, Email: p.cfg.Git.AuthorEmail}
}

func (p *project) outputDir() string {
	if filepath.IsAbs(p.cfg.Output.Dir) {
		return p.cfg.Output.Dir
	}
	return filepath.Join(p.root, p.cfg.Output.Dir)
}

// rel returns path relative to the project root when it lies inside it.
func (p *project) rel(path string) string {
	r, err := filepath.Rel(p.root, path)
	if err != nil || strings.HasPrefix(r, "..") {
		return path
	}
	return filepath.ToSlash(r)
}

func (p *project) pipelineOptions(now time.Time, logger *slog.Logger) inventory.Options {
	c := p.cfg.Input.Columns
	opts := inventory.DefaultOptions(now)
	opts.Location = p.loc
	opts.NearExpiryDays = p.cfg.Thresholds.NearExpiryDays
	opts.LowProfit = decimal.NewFromFloat(p.cfg.Thresholds.LowProfit)
	opts.Columns = inventory.Columns{
		Serial:   c.Serial,
		Item:     c.Item,
		Quantity: c.Quantity,
		Cost:     c.Cost,
		Sell:     c.Sell,
		Category: c.Category,
		Expiry:   c.Expiry,
	}
	opts.Logger = logger
	return opts
}

// nowLayouts are accepted by --now.
var nowLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

func parseNow(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Now().In(loc), nil
	}
	for _, layout := range nowLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --now %q: want YYYY-MM-DD or RFC 3339", s)
}
