package convert

import (
	"io/fs"
	"strings"

	"git.home.luguber.info/inful/docsnap/internal/foundation/errors"
	"git.home.luguber.info/inful/docsnap/internal/syncmap"
)

// Stage names, in execution order.
const (
	StageAssetPrefixes  = "asset_prefixes"
	StageDivBlocks      = "div_blocks"
	StagePackageLinks   = "package_links"
	StageBadges         = "badges"
	StageTableCells     = "table_cells"
	StagePackageHeaders = "package_headers"
	StageLinks          = "links"
)

// AssetPrefix is a literal substitution applied before any other stage.
type AssetPrefix struct {
	From string
	To   string
}

// Options configures a Transformer.
type Options struct {
	// SyncMap is shared read-only by every stage.
	SyncMap *syncmap.Map
	// Repo is a read-only view of the repository root, used to tell unsynced
	// link targets from missing ones. Optional.
	Repo fs.FS

	Badges       BadgeRules
	RemoveLabels []string

	AssetPrefixes []AssetPrefix
	// LicenseFile is what a bare LICENSE link target stands for.
	LicenseFile string
	// PackagesDir is the docs-root relative directory of package pages.
	PackagesDir string
	// PackageNames select the table header cells to restyle. Defaults to the
	// package names of the Sync Map.
	PackageNames []string
	// PassThroughDirs are docs-root relative directories links may point into
	// without a Sync Map entry (the copied assets directory).
	PassThroughDirs []string
}

// StageReport counts the changes one stage made.
type StageReport struct {
	Name    string
	Changes int
}

// Report describes one transformation.
type Report struct {
	Stages   []StageReport
	Links    LinkStats
	Removals []Removal
}

// Changes returns the count recorded for stage.
func (r Report) Changes(stage string) int {
	for _, s := range r.Stages {
		if s.Name == stage {
			return s.Changes
		}
	}
	return 0
}

type stage struct {
	name string
	run  func(text string, report *Report) (string, int, error)
}

// Transformer runs the conversion pipeline over single documents. It holds no
// per-document state and may be reused for every document of a run.
type Transformer struct {
	opts       Options
	classifier *Classifier
	resolver   *Resolver
	stages     []stage
}

// New builds a Transformer. Zero-valued options fall back to the defaults.
func New(opts Options) *Transformer {
	if opts.Badges.StaticDomains == nil && opts.Badges.DynamicDomains == nil &&
		opts.Badges.AggregatorDomains == nil && opts.Badges.AggregatorKeywords == nil {
		opts.Badges = DefaultBadgeRules()
	}
	if opts.LicenseFile == "" {
		opts.LicenseFile = "LICENSE.txt"
	}
	if opts.PackagesDir == "" {
		opts.PackagesDir = "packages"
	}
	if opts.PackageNames == nil && opts.SyncMap != nil {
		opts.PackageNames = opts.SyncMap.PackageNames()
	}

	t := &Transformer{
		opts:       opts,
		classifier: NewClassifier(opts.Badges),
		resolver:   NewResolver(opts.SyncMap, opts.Repo, opts.LicenseFile, opts.PassThroughDirs),
	}
	t.stages = []stage{
		{StageAssetPrefixes, t.assetPrefixes},
		{StageDivBlocks, func(text string, _ *Report) (string, int, error) {
			out, n := processDivBlocks(text)
			return out, n, nil
		}},
		{StagePackageLinks, func(text string, _ *Report) (string, int, error) {
			out, n := rewritePackageLinks(text, t.opts.SyncMap, t.opts.PackagesDir)
			return out, n, nil
		}},
		{StageBadges, func(text string, _ *Report) (string, int, error) {
			return removeBadges(text, t.classifier, t.opts.RemoveLabels)
		}},
		{StageTableCells, func(text string, _ *Report) (string, int, error) {
			out, n := reflowTableCells(text)
			return out, n, nil
		}},
		{StagePackageHeaders, func(text string, _ *Report) (string, int, error) {
			out, n := stylePackageHeaders(text, t.opts.PackageNames)
			return out, n, nil
		}},
		{StageLinks, t.links},
	}
	return t
}

// Transform converts one document.
func (t *Transformer) Transform(text string) (string, error) {
	out, _, err := t.TransformWithReport(text)
	return out, err
}

// TransformWithReport converts one document and reports what each stage did.
// On error the input is returned unchanged.
func (t *Transformer) TransformWithReport(text string) (string, Report, error) {
	report := Report{Stages: make([]StageReport, 0, len(t.stages))}
	current := text
	for _, s := range t.stages {
		out, n, err := s.run(current, &report)
		if err != nil {
			return text, report, errors.TransformError("transform stage failed").
				WithCause(err).
				WithContext("stage", s.name).
				Build()
		}
		report.Stages = append(report.Stages, StageReport{Name: s.name, Changes: n})
		current = out
	}
	return current, report, nil
}

func (t *Transformer) assetPrefixes(text string, _ *Report) (string, int, error) {
	changed := 0
	for _, p := range t.opts.AssetPrefixes {
		if p.From == "" {
			continue
		}
		if n := strings.Count(text, p.From); n > 0 {
			changed += n
			text = strings.ReplaceAll(text, p.From, p.To)
		}
	}
	return text, changed, nil
}

func (t *Transformer) links(text string, report *Report) (string, int, error) {
	out, stats, removals, err := t.resolver.Apply(text)
	if err != nil {
		return text, 0, err
	}
	report.Links = stats
	report.Removals = removals
	return out, stats.Rewritten + stats.RemovedLine + stats.RemovedInline, nil
}
