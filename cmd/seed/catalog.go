package main

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/JaimeStill/agent-instances/pkg/repository"
)

//go:embed seeds/*.json
var seedFiles embed.FS

const defaultCatalog = "seeds/catalog.json"

// Catalog is the JSON seed file layout. Models and agents refer to their
// parents by name so a catalog can be written before any ids exist.
type Catalog struct {
	Providers []ProviderSeed `json:"providers"`
	Models    []ModelSeed    `json:"models"`
	Tools     []ToolSeed     `json:"tools"`
	Agents    []AgentSeed    `json:"agents"`
}

// ProviderSeed names the environment variable holding the provider key.
// Keys are never stored in the catalog itself.
type ProviderSeed struct {
	Name      string `json:"name"`
	APIURL    string `json:"api_url"`
	APIKeyEnv string `json:"api_key_env"`
}

type ModelSeed struct {
	Name     string             `json:"name"`
	Provider string             `json:"provider"`
	Params   repository.JSONMap `json:"params"`
}

type ToolSeed struct {
	DisplayName string             `json:"display_name"`
	Handle      string             `json:"handle"`
	Description string             `json:"description"`
	LogoURL     string             `json:"logo_url"`
	Public      bool               `json:"public"`
	APIURL      string             `json:"api_url"`
	AuthMethod  string             `json:"auth_method"`
	AuthInfo    repository.JSONMap `json:"auth_info"`
	UsageNotes  string             `json:"usage_notes"`
}

type AgentSeed struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Model       string   `json:"model"`
	Provider    string   `json:"provider"`
	Prompt      string   `json:"prompt"`
	Tools       []string `json:"tools"`
	Public      bool     `json:"public"`
}

// loadCatalog reads path, or the embedded catalog when path is empty.
func loadCatalog(path string) (*Catalog, error) {
	var (
		content []byte
		err     error
	)

	if path != "" {
		content, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	} else {
		content, err = seedFiles.ReadFile(defaultCatalog)
		if err != nil {
			return nil, fmt.Errorf("read embedded seed file: %w", err)
		}
	}

	var c Catalog
	if err := json.Unmarshal(content, &c); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &c, nil
}
