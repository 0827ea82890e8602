package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Scheduler SchedulerConfig `toml:"scheduler"`
	Groups    []GroupConfig   `toml:"groups"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type SchedulerConfig struct {
	Interval string `toml:"interval"`
	RunOnce  bool   `toml:"run_once"`
}

// GroupConfig is a named cluster of feeds sharing an origin and source type.
// All feeds in a group use the group's fetch timeout.
type GroupConfig struct {
	Name       string       `toml:"name"`
	SourceType string       `toml:"source_type"`
	Timeout    string       `toml:"timeout"`
	Feeds      []FeedConfig `toml:"feeds"`
}

type FeedConfig struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

func (s SchedulerConfig) IntervalDuration() time.Duration {
	d, _ := time.ParseDuration(s.Interval)
	return d
}

func (g GroupConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(g.Timeout)
	return d
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		config.Server.Port = "3000"
	}

	if config.Scheduler.Interval == "" {
		config.Scheduler.Interval = "30m"
	}

	if _, err := time.ParseDuration(config.Scheduler.Interval); err != nil {
		return fmt.Errorf("invalid interval: %w", err)
	}

	if len(config.Groups) == 0 {
		return fmt.Errorf("at least one source group must be configured")
	}

	for i := range config.Groups {
		group := &config.Groups[i]
		if group.Name == "" {
			return fmt.Errorf("group %d: name is required", i)
		}
		if group.SourceType == "" {
			group.SourceType = "global"
		}
		if group.Timeout == "" {
			group.Timeout = "15s"
		}
		if _, err := time.ParseDuration(group.Timeout); err != nil {
			return fmt.Errorf("group %s: invalid timeout: %w", group.Name, err)
		}
		if len(group.Feeds) == 0 {
			return fmt.Errorf("group %s: at least one feed is required", group.Name)
		}
		for _, feed := range group.Feeds {
			if feed.Name == "" || feed.URL == "" {
				return fmt.Errorf("group %s: feed name and url are required", group.Name)
			}
		}
	}

	return nil
}

// Default returns the built-in source table so the binary runs without a
// config file. Region feeds get a 15s timeout, global feeds 20s.
func Default() *Config {
	config := &Config{
		Server:    ServerConfig{Port: "3000"},
		Scheduler: SchedulerConfig{Interval: "30m"},
		Groups: []GroupConfig{
			{
				Name:       "scmp",
				SourceType: "hk_media",
				Timeout:    "15s",
				Feeds: []FeedConfig{
					{Name: "SCMP", URL: "https://www.scmp.com/rss/4/feed"},
					{Name: "SCMP", URL: "https://www.scmp.com/rss/2/feed"},
					{Name: "SCMP", URL: "https://www.scmp.com/rss/91/feed"},
					{Name: "SCMP", URL: "https://www.scmp.com/rss/322214/feed"},
				},
			},
			{
				Name:       "hk_media",
				SourceType: "hk_media",
				Timeout:    "15s",
				Feeds: []FeedConfig{
					{Name: "HKFP", URL: "https://hongkongfp.com/feed/"},
				},
			},
			{
				Name:       "global",
				SourceType: "global",
				Timeout:    "20s",
				Feeds: []FeedConfig{
					{Name: "BBC Business", URL: "http://feeds.bbci.co.uk/news/business/rss.xml"},
					{Name: "Reuters", URL: "https://feeds.reuters.com/reuters/worldNews"},
					{Name: "Bloomberg", URL: "https://feeds.bloomberg.com/markets/news.rss"},
				},
			},
		},
	}

	if err := validateConfig(config); err != nil {
		panic(fmt.Sprintf("default config invalid: %v", err))
	}

	return config
}
