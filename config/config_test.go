// file: config/config_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Policy.Path != ".specgate/policy.yml" {
		t.Errorf("Policy.Path = %s, want .specgate/policy.yml", cfg.Policy.Path)
	}
	if cfg.Status.Path != ".specgate/status.yml" {
		t.Errorf("Status.Path = %s, want .specgate/status.yml", cfg.Status.Path)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %s, want info", cfg.Logging.Level)
	}
	if cfg.Logging.Encoding != "console" {
		t.Errorf("Logging.Encoding = %s, want console", cfg.Logging.Encoding)
	}
}

func TestLoad_FromFile(t *testing.T) {
	content := `policy:
  path: custom/policy.yml
status:
  path: custom/status.yml
repo:
  override: acme/widgets
enforce:
  ignoredFeatures:
    - legacy
    - experimental
logging:
  level: debug
  encoding: json
  outputPath: stdout
`
	path := filepath.Join(t.TempDir(), "specgate.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Policy.Path != "custom/policy.yml" {
		t.Errorf("Policy.Path = %s, want custom/policy.yml", cfg.Policy.Path)
	}
	if cfg.Repo.Override != "acme/widgets" {
		t.Errorf("Repo.Override = %s, want acme/widgets", cfg.Repo.Override)
	}
	if len(cfg.Enforce.IgnoredFeatures) != 2 || cfg.Enforce.IgnoredFeatures[0] != "legacy" {
		t.Errorf("IgnoredFeatures = %v, want [legacy experimental]", cfg.Enforce.IgnoredFeatures)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Encoding != "json" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "bad log level",
			content: `logging:
  level: verbose
`,
		},
		{
			name: "bad encoding",
			content: `logging:
  encoding: xml
`,
		},
		{
			name: "bad repo override",
			content: `repo:
  override: not-owner-slash-name
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "specgate.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() should reject invalid config")
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() should fail for an explicitly named missing file")
	}
}

func TestLoad_MalformedDefaultFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".specgate.yaml"), []byte("logging: [unclosed"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Fatalf("failed to restore working directory: %v", err)
		}
	})

	if _, err := Load(""); err == nil {
		t.Error("Load() should fail when the default-path config is malformed")
	}
}
