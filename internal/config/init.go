package config

import (
	"fmt"
	"os"
)

const exampleConfig = `# sitebuilder configuration
site:
  title: "Some Blog"
  logo_text: "SOME BLOG"
  author: "Site Author"
  description: "A generated static site"
  keywords: "blog, posts"
  base_url: "https://example.com"
  footer: "<p>All content licensed under CC BY 4.0.</p>"

content:
  path: ./content
  # git:
  #   url: https://example.com/org/content.git
  #   branch: main
  #   subdir: content

templates:
  # path: ./templates   # override the builtin templates

output:
  directory: ./site
  clean: true
  # resources: ./resources

pagination:
  page_size: 7

chrome:
  max_tag_cloud: 5
  max_recent_posts: 5
  menu:
    - title: HOME
      url: home
      position: 0

# history:
#   enabled: true
#   path: sitebuilder-history.db

# events:
#   enabled: true
#   url: nats://localhost:4222
#   subject: sitebuilder.builds

# link_check:
#   enabled: true
`

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	// #nosec G306 -- example config is not sensitive
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("write example config: %w", err)
	}
	return nil
}
