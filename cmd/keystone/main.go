// Command keystone analyzes chiastic structure in Old Testament texts.
// It indexes a scope of books into one ordered verse sequence, reports the
// structurally significant anchor verses with their translations, and
// mirrors single passages to surface shared vocabulary.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/KeystoneBible/core/chiasm"
	"github.com/FocuswithJustin/KeystoneBible/core/scopes"
	"github.com/FocuswithJustin/KeystoneBible/core/verseindex"
	"github.com/FocuswithJustin/KeystoneBible/internal/api"
	"github.com/FocuswithJustin/KeystoneBible/internal/logging"
	"github.com/FocuswithJustin/KeystoneBible/internal/oshb"
	"github.com/FocuswithJustin/KeystoneBible/internal/translations"
)

const version = "0.1.0"

// CLI defines the command-line interface for keystone.
var CLI struct {
	// Global flags
	LogLevel   string        `name:"log-level" default:"info" help:"Log level (debug, info, warn, error)"`
	LogFormat  string        `name:"log-format" default:"text" help:"Log format (json, text)"`
	ScopesFile string        `name:"scopes-file" help:"YAML file with custom scope definitions" type:"existingfile"`
	OfflineDB  string        `name:"offline-db" help:"SQLite verse database consulted before remote APIs" type:"path"`
	NoRemote   bool          `name:"no-remote" help:"Disable remote lookups (offline database only)"`
	CacheTTL   time.Duration `name:"cache-ttl" default:"1h" help:"Verse lookup cache TTL (0 disables caching)"`

	// Command groups (noun-first organization)
	Scope   ScopeGroup   `cmd:"" help:"Scope catalog operations (list, show)"`
	Analyze AnalyzeGroup `cmd:"" help:"Chiasm analysis over a scope"`
	Psalm   PsalmGroup   `cmd:"" help:"Single-passage pairing analysis"`
	Serve   ServeCmd     `cmd:"" help:"Start REST API server"`
	Version VersionCmd   `cmd:"" help:"Print version information"`
}

// ScopeGroup contains scope catalog operations.
type ScopeGroup struct {
	List ScopeListCmd `cmd:"" help:"List available scopes"`
	Show ScopeShowCmd `cmd:"" help:"Show a scope's books, verse count and fingerprint"`
}

// AnalyzeGroup contains scope analysis operations.
type AnalyzeGroup struct {
	Middle    MiddleCmd    `cmd:"" help:"Report the exact middle verse of a scope"`
	Quartiles QuartilesCmd `cmd:"" help:"Report the Q1/Q2/Q3 quartile verses"`
	Anchors   AnchorsCmd   `cmd:"" help:"Report all five structural anchors"`
	Themes    ThemesCmd    `cmd:"" help:"Compare repeated words across anchors"`
}

// PsalmGroup contains single-passage operations.
type PsalmGroup struct {
	List  PsalmListCmd  `cmd:"" help:"List psalms in the embedded psalter"`
	Pairs PsalmPairsCmd `cmd:"" help:"Mirror a psalm's verses and show shared vocabulary"`
}

// loadCatalog builds the scope catalog, merging custom scopes when given.
func loadCatalog() (*scopes.Catalog, error) {
	catalog, err := scopes.New()
	if err != nil {
		return nil, err
	}
	if CLI.ScopesFile != "" {
		if err := catalog.LoadScopesFile(CLI.ScopesFile); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

// buildLookup assembles the translation service from the global flags.
func buildLookup() (*translations.Service, error) {
	var opts []translations.Option

	if CLI.OfflineDB != "" {
		store, err := translations.OpenStore(CLI.OfflineDB)
		if err != nil {
			return nil, fmt.Errorf("open offline database: %w", err)
		}
		opts = append(opts, translations.WithStore(store))
	}
	if CLI.NoRemote {
		opts = append(opts, translations.WithoutRemote())
	}
	if CLI.CacheTTL > 0 {
		opts = append(opts, translations.WithCache(translations.NewVerseCache(CLI.CacheTTL)))
	}

	return translations.NewService(opts...), nil
}

// buildAnalyzer wires catalog, sequence and lookup for one scope.
func buildAnalyzer(scopeID string) (*chiasm.Analyzer, error) {
	catalog, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	seq, err := verseindex.Build(catalog, scopeID)
	if err != nil {
		return nil, err
	}
	lookup, err := buildLookup()
	if err != nil {
		return nil, err
	}
	return chiasm.NewAnalyzer(seq, lookup), nil
}

// emitJSON pretty-prints a report to stdout.
func emitJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printVerse prints one translation record indented under its heading.
func printVerse(v chiasm.VerseText) {
	fmt.Printf("    Hebrew:   %s\n", v.Hebrew)
	fmt.Printf("    JPS 1917: %s\n", v.JPS1917)
	fmt.Printf("    WEB:      %s\n", v.WEB)
}

// ScopeListCmd lists all scopes in the catalog.
type ScopeListCmd struct {
	JSON bool `help:"Emit JSON instead of text"`
}

func (c *ScopeListCmd) Run() error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	type entry struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		Description string   `json:"description,omitempty"`
		Books       []string `json:"books"`
	}
	entries := make([]entry, 0)
	for _, id := range catalog.ScopeIDs() {
		scope, err := catalog.Resolve(id)
		if err != nil {
			return err
		}
		entries = append(entries, entry{scope.ID, scope.Name, scope.Description, scope.Books})
	}

	if c.JSON {
		return emitJSON(entries)
	}
	for _, e := range entries {
		fmt.Printf("%-12s %s (%s)\n", e.ID, e.Name, strings.Join(e.Books, " "))
	}
	return nil
}

// ScopeShowCmd shows one scope's summary.
type ScopeShowCmd struct {
	Scope string `arg:"" help:"Scope identifier"`
	JSON  bool   `help:"Emit JSON instead of text"`
}

func (c *ScopeShowCmd) Run() error {
	analyzer, err := buildAnalyzer(c.Scope)
	if err != nil {
		return err
	}
	summary := analyzer.ScopeSummary()

	if c.JSON {
		return emitJSON(summary)
	}
	fmt.Printf("%s - %s\n", summary.ScopeID, summary.Name)
	if summary.Description != "" {
		fmt.Println(summary.Description)
	}
	fmt.Printf("Books:       %s\n", strings.Join(summary.Books, " "))
	fmt.Printf("Verses:      %d\n", summary.VerseCount)
	fmt.Printf("Fingerprint: %s\n", summary.Fingerprint)
	return nil
}

// MiddleCmd reports the middle verse of a scope.
type MiddleCmd struct {
	Scope string `arg:"" help:"Scope identifier"`
	JSON  bool   `help:"Emit JSON instead of text"`
}

func (c *MiddleCmd) Run() error {
	analyzer, err := buildAnalyzer(c.Scope)
	if err != nil {
		return err
	}
	report := analyzer.MiddleVerse(context.Background())

	if c.JSON {
		return emitJSON(report)
	}
	fmt.Printf("%s: verse %d of %d (%s)\n", report.Position, report.Index+1, report.TotalVerses, report.Verse.Ref)
	printVerse(report.Verse)
	fmt.Printf("\n%s\n", report.Note)
	return nil
}

// QuartilesCmd reports the three quartile anchors.
type QuartilesCmd struct {
	Scope string `arg:"" help:"Scope identifier"`
	JSON  bool   `help:"Emit JSON instead of text"`
}

func (c *QuartilesCmd) Run() error {
	analyzer, err := buildAnalyzer(c.Scope)
	if err != nil {
		return err
	}
	rows := analyzer.QuartileFrame(context.Background())

	if c.JSON {
		return emitJSON(rows)
	}
	printAnchorRows(rows)
	return nil
}

// AnchorsCmd reports all five structural anchors.
type AnchorsCmd struct {
	Scope string `arg:"" help:"Scope identifier"`
	JSON  bool   `help:"Emit JSON instead of text"`
}

func (c *AnchorsCmd) Run() error {
	analyzer, err := buildAnalyzer(c.Scope)
	if err != nil {
		return err
	}
	rows := analyzer.FullAnchors(context.Background())

	if c.JSON {
		return emitJSON(rows)
	}
	printAnchorRows(rows)
	return nil
}

// printAnchorRows renders anchor report rows as text.
func printAnchorRows(rows []chiasm.AnchorRow) {
	for i, row := range rows {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("%s - index %d (%s)\n", row.Position, row.Index, row.Verse.Ref)
		printVerse(row.Verse)
		fmt.Printf("    %s\n", row.Note)
	}
}

// ThemesCmd compares repeated words across the five anchors.
type ThemesCmd struct {
	Scope string `arg:"" help:"Scope identifier"`
	Mode  string `default:"surface" help:"Comparison mode (surface, lemma)"`
	JSON  bool   `help:"Emit JSON instead of text"`
}

func (c *ThemesCmd) Run() error {
	mode, ok := chiasm.ParseThemeMode(c.Mode)
	if !ok {
		return fmt.Errorf("invalid mode %q: must be 'surface' or 'lemma'", c.Mode)
	}

	analyzer, err := buildAnalyzer(c.Scope)
	if err != nil {
		return err
	}
	report := analyzer.AnchorThemes(context.Background(), mode)

	if c.JSON {
		return emitJSON(report)
	}
	fmt.Printf("Unique words across anchors: %d\n", report.TotalUniqueWords)
	if len(report.RepeatedWords) == 0 {
		fmt.Println("No repeated words found.")
	} else {
		fmt.Println("Repeated words:")
		words := make([]string, 0, len(report.RepeatedWords))
		for w := range report.RepeatedWords {
			words = append(words, w)
		}
		// Most frequent first; alphabetical within a count.
		sort.Slice(words, func(i, j int) bool {
			if report.RepeatedWords[words[i]] != report.RepeatedWords[words[j]] {
				return report.RepeatedWords[words[i]] > report.RepeatedWords[words[j]]
			}
			return words[i] < words[j]
		})
		for _, w := range words {
			fmt.Printf("  %dx %s\n", report.RepeatedWords[w], w)
		}
	}
	fmt.Printf("\n%s\n", report.Note)
	return nil
}

// PsalmListCmd lists the psalms available in the embedded psalter.
type PsalmListCmd struct {
	JSON bool `help:"Emit JSON instead of text"`
}

func (c *PsalmListCmd) Run() error {
	nums, err := oshb.Psalms()
	if err != nil {
		return err
	}
	if c.JSON {
		return emitJSON(nums)
	}
	for _, n := range nums {
		fmt.Printf("Psalm %d\n", n)
	}
	return nil
}

// PsalmPairsCmd mirrors one psalm's verses around its center.
type PsalmPairsCmd struct {
	Number    int    `arg:"" optional:"" help:"Psalm number from the embedded psalter"`
	File      string `help:"OSHB-style OSIS file to analyze instead" type:"existingfile"`
	MinShared int    `name:"min-shared" help:"Hide pairs sharing fewer tokens (hinge always shown)"`
	JSON      bool   `help:"Emit JSON instead of text"`
}

func (c *PsalmPairsCmd) Run() error {
	var verses []chiasm.PassageVerse
	var err error
	switch {
	case c.File != "":
		verses, err = oshb.ParseFile(c.File)
	case c.Number > 0:
		verses, err = oshb.LoadPsalm(c.Number)
	default:
		return fmt.Errorf("a psalm number or --file is required")
	}
	if err != nil {
		return err
	}

	pairs := chiasm.FilterPairs(chiasm.ComputePairings(verses), c.MinShared)

	if c.JSON {
		return emitJSON(pairs)
	}
	for i, p := range pairs {
		if i > 0 {
			fmt.Println()
		}
		if p.Kind == chiasm.CenterHinge {
			fmt.Printf("%s: verse %d\n", p.Kind, p.A.Number)
			fmt.Printf("    %s\n", p.A.Text)
			if p.A.Gloss != "" {
				fmt.Printf("    %s\n", p.A.Gloss)
			}
			continue
		}
		fmt.Printf("%s: verses %d and %d (%d shared)\n", p.Kind, p.A.Number, p.B.Number, len(p.Shared))
		fmt.Printf("    %s\n", p.A.Text)
		fmt.Printf("    %s\n", p.B.Text)
		for _, tok := range p.Shared {
			if tok.Gloss != "" {
				fmt.Printf("      %s (%s) %s\n", tok.Surface, tok.Key, tok.Gloss)
			} else {
				fmt.Printf("      %s (%s)\n", tok.Surface, tok.Key)
			}
		}
	}
	return nil
}

// ServeCmd starts the REST API server.
type ServeCmd struct {
	Port           int      `help:"HTTP server port" default:"8081"`
	RateLimit      int      `name:"rate-limit" help:"Requests per minute per client (0 = disabled)"`
	RateLimitBurst int      `name:"rate-limit-burst" help:"Rate limit burst size" default:"10"`
	APIKey         string   `name:"api-key" env:"KEYSTONE_API_KEY" help:"Require this API key on requests"`
	TLSCert        string   `name:"tls-cert" help:"Path to TLS certificate file" type:"path"`
	TLSKey         string   `name:"tls-key" help:"Path to TLS private key file" type:"path"`
	AllowedOrigins []string `name:"allowed-origins" help:"CORS allowed origins (empty = allow all)"`
}

func (c *ServeCmd) Run() error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	lookup, err := buildLookup()
	if err != nil {
		return err
	}

	cfg := api.Config{
		Port:              c.Port,
		RateLimitRequests: c.RateLimit,
		RateLimitBurst:    c.RateLimitBurst,
		AllowedOrigins:    c.AllowedOrigins,
	}
	if c.APIKey != "" {
		cfg.Auth = api.AuthConfig{Enabled: true, APIKey: c.APIKey}
	}
	if c.TLSCert != "" || c.TLSKey != "" {
		cfg.TLS = api.TLSConfig{Enabled: true, CertFile: c.TLSCert, KeyFile: c.TLSKey}
	}

	return api.NewServer(cfg, catalog, lookup, oshb.Source{}).Start()
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("keystone version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("keystone"),
		kong.Description("Keystone Bible - chiasm analysis of Old Testament texts"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), logging.ParseFormat(CLI.LogFormat))

	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
