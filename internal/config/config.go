// Package config loads and validates the generator configuration from YAML,
// with environment variable expansion and .env support.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitebuilder/internal/paths"
	"git.home.luguber.info/inful/sitebuilder/internal/siteerrors"
)

// Config represents the application configuration
type Config struct {
	Site       SiteConfig       `yaml:"site"`
	Content    ContentConfig    `yaml:"content"`
	Templates  TemplatesConfig  `yaml:"templates"`
	Output     OutputConfig     `yaml:"output"`
	URLs       URLConfig        `yaml:"urls"`
	Pagination PaginationConfig `yaml:"pagination"`
	Chrome     ChromeConfig     `yaml:"chrome"`
	Feeds      FeedsConfig      `yaml:"feeds"`
	History    HistoryConfig    `yaml:"history"`
	Events     EventsConfig     `yaml:"events"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Watch      WatchConfig      `yaml:"watch"`
	LinkCheck  LinkCheckConfig  `yaml:"link_check"`
}

// SiteConfig carries site-wide metadata rendered into every page's chrome.
type SiteConfig struct {
	Title          string `yaml:"title"`
	LogoText       string `yaml:"logo_text,omitempty"`
	TitleSeparator string `yaml:"title_separator,omitempty"`
	HomepageTitle  string `yaml:"homepage_title,omitempty"`
	Author         string `yaml:"author,omitempty"`
	Description    string `yaml:"description,omitempty"`
	Keywords       string `yaml:"keywords,omitempty"`
	BaseURL        string `yaml:"base_url,omitempty"`
	Footer         string `yaml:"footer,omitempty"`
	DateFormat     string `yaml:"date_format,omitempty"` // Go reference layout
	RobotsTxt      string `yaml:"robots_txt,omitempty"`
}

// ContentConfig locates the content definitions.
type ContentConfig struct {
	Path string           `yaml:"path"`
	Git  *GitSourceConfig `yaml:"git,omitempty"` // optional remote source
}

// GitSourceConfig describes a remote content repository cloned before building.
type GitSourceConfig struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch,omitempty"`
	// Subdir inside the clone holding the content definitions.
	Subdir string `yaml:"subdir,omitempty"`
}

// TemplatesConfig points at an optional template override directory; the
// builtin templates are used when empty.
type TemplatesConfig struct {
	Path string `yaml:"path,omitempty"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // Clean output directory before build
	// Resources is an optional directory copied verbatim into the output tree.
	Resources string `yaml:"resources,omitempty"`
}

// URLConfig shapes generated file paths.
type URLConfig struct {
	FileSuffix    string `yaml:"file_suffix,omitempty"`
	HomeFile      string `yaml:"home_file,omitempty"`
	TagPrefix     string `yaml:"tag_prefix,omitempty"`
	PageInfix     string `yaml:"page_infix,omitempty"`
	PageToken     string `yaml:"page_token,omitempty"`
	SitemapPrefix string `yaml:"sitemap_prefix,omitempty"`
}

// PaginationConfig sets the feed page size.
type PaginationConfig struct {
	PageSize int `yaml:"page_size"`
}

// ChromeConfig bounds the site-wide navigation fragments.
type ChromeConfig struct {
	MaxTagCloud       int        `yaml:"max_tag_cloud,omitempty"`
	MaxRecentPosts    int        `yaml:"max_recent_posts,omitempty"`
	MaxRecentDatasets int        `yaml:"max_recent_datasets,omitempty"`
	Menu              []MenuItem `yaml:"menu,omitempty"`
}

// MenuItem is an external menu entry merged with listed pages by position.
type MenuItem struct {
	Title    string `yaml:"title"`
	URL      string `yaml:"url"` // "home" targets the homepage
	Position int    `yaml:"position"`
}

// FeedsConfig names the listing feeds.
type FeedsConfig struct {
	ArticlesTitle string `yaml:"articles_title,omitempty"`
	DatasetsAlias string `yaml:"datasets_alias,omitempty"`
	DatasetsTitle string `yaml:"datasets_title,omitempty"`
}

// HistoryConfig enables the sqlite run-history store.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// EventsConfig enables build-completed event publishing over NATS.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// MetricsConfig enables the Prometheus recorder (exposed in watch mode).
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen,omitempty"`
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	// Debounce delays a rebuild after the last filesystem event.
	Debounce time.Duration `yaml:"debounce,omitempty"`
	// Interval triggers scheduled rebuilds independent of file events;
	// zero disables the schedule.
	Interval time.Duration `yaml:"interval,omitempty"`
}

// LinkCheckConfig enables post-build internal link verification.
type LinkCheckConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, siteerrors.Configuration(fmt.Sprintf("configuration file not found: %s", configPath))
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- operator-supplied config path
	if err != nil {
		return nil, siteerrors.Wrap(err, siteerrors.CategoryConfig, "read config file")
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, siteerrors.Wrap(err, siteerrors.CategoryConfig, "unmarshal config")
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "Generated Site"
	}
	if c.Site.LogoText == "" {
		c.Site.LogoText = c.Site.Title
	}
	if c.Site.TitleSeparator == "" {
		c.Site.TitleSeparator = " | "
	}
	if c.Site.DateFormat == "" {
		c.Site.DateFormat = "January 2, 2006"
	}
	if c.Site.RobotsTxt == "" {
		c.Site.RobotsTxt = "User-agent: *\nAllow: /\nSitemap: sitemap.xml\n"
	}
	if c.Content.Path == "" {
		c.Content.Path = "./content"
	}
	if c.Content.Git != nil && c.Content.Git.Branch == "" {
		c.Content.Git.Branch = "main"
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "./site"
	}
	if c.URLs.FileSuffix == "" {
		c.URLs.FileSuffix = ".html"
	}
	if c.URLs.HomeFile == "" {
		c.URLs.HomeFile = "index.html"
	}
	if c.URLs.TagPrefix == "" {
		c.URLs.TagPrefix = "tag-"
	}
	if c.URLs.PageInfix == "" {
		c.URLs.PageInfix = "-"
	}
	if c.URLs.PageToken == "" {
		c.URLs.PageToken = "page-"
	}
	if c.Pagination.PageSize == 0 {
		c.Pagination.PageSize = 7
	}
	if c.Chrome.MaxTagCloud == 0 {
		c.Chrome.MaxTagCloud = 5
	}
	if c.Chrome.MaxRecentPosts == 0 {
		c.Chrome.MaxRecentPosts = 5
	}
	if c.Chrome.MaxRecentDatasets == 0 {
		c.Chrome.MaxRecentDatasets = 5
	}
	if c.Feeds.ArticlesTitle == "" {
		c.Feeds.ArticlesTitle = "Articles"
	}
	if c.Feeds.DatasetsAlias == "" {
		c.Feeds.DatasetsAlias = "datasets"
	}
	if c.Feeds.DatasetsTitle == "" {
		c.Feeds.DatasetsTitle = "Datasets"
	}
	if c.History.Enabled && c.History.Path == "" {
		c.History.Path = "sitebuilder-history.db"
	}
	if c.Events.Enabled && c.Events.Subject == "" {
		c.Events.Subject = "sitebuilder.builds"
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		c.Metrics.Listen = ":9090"
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = 500 * time.Millisecond
	}
}

// Validate checks generation parameters; violations are configuration errors.
func (c *Config) Validate() error {
	if c.Pagination.PageSize < 1 {
		return siteerrors.Configuration(fmt.Sprintf("pagination.page_size must be positive, got %d", c.Pagination.PageSize))
	}
	if c.URLs.HomeFile == "/" || c.URLs.HomeFile == "" {
		return siteerrors.Configuration("urls.home_file must be a file name such as index.html")
	}
	if c.Content.Git != nil && c.Content.Git.URL == "" {
		return siteerrors.Configuration("content.git.url is required when a git source is configured")
	}
	if c.Events.Enabled && c.Events.URL == "" {
		return siteerrors.Configuration("events.url is required when event publishing is enabled")
	}
	return nil
}

// Scheme returns the URL scheme derived from the URLs section.
func (c *Config) Scheme() paths.Scheme {
	return paths.Scheme{
		Suffix:    c.URLs.FileSuffix,
		HomeFile:  c.URLs.HomeFile,
		TagPrefix: c.URLs.TagPrefix,
		PageInfix: c.URLs.PageInfix,
		PageToken: c.URLs.PageToken,
	}
}
