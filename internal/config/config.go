// Package config holds the runtime configuration of the notice generator.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/knakagawa/harigami/internal/workorder"
)

// Config is the read-only runtime configuration. It is built once at startup
// and shared by the CLI and the web server.
type Config struct {
	TemplatePath string `yaml:"template_path"`
	SheetName    string `yaml:"sheet_name"`
	OutputDir    string `yaml:"output_dir"`
	ListenAddr   string `yaml:"listen_addr"`
	ArchiveName  string `yaml:"archive_name"`
}

// Default returns the configuration matching the original application defaults.
func Default() Config {
	return Config{
		TemplatePath: "harigami.docx",
		SheetName:    workorder.SheetName,
		OutputDir:    "output_docs",
		ListenAddr:   ":8080",
		ArchiveName:  "generated_word_documents.zip",
	}
}

// Load returns the defaults overlaid with the yaml file at path.
// An empty path yields the plain defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
