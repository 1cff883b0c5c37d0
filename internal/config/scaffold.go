package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// gitignoreEntries keep secrets and local history out of version control.
var gitignoreEntries = []string{".env", ".ntfy/"}

// InitFile writes a default ntfy.toml template to the given directory.
func InitFile(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config: %s already exists at %s", FileName, path)
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}

// ScaffoldProject creates ntfy.toml, .env.example and the .gitignore entries
// in dir. Files that already exist are left untouched. Returns the list of
// created or modified paths.
func ScaffoldProject(dir string) ([]string, error) {
	var created []string

	tomlPath := filepath.Join(dir, FileName)
	if _, err := os.Stat(tomlPath); os.IsNotExist(err) {
		if _, initErr := InitFile(dir); initErr != nil {
			return created, initErr
		}
		created = append(created, tomlPath)
	}

	envPath := filepath.Join(dir, ".env.example")
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		if writeErr := os.WriteFile(envPath, []byte(envTemplate), 0644); writeErr != nil {
			return created, fmt.Errorf("scaffold: write %s: %w", envPath, writeErr)
		}
		created = append(created, envPath)
	}

	gitignorePath := filepath.Join(dir, ".gitignore")
	existing, err := os.ReadFile(gitignorePath)
	if err != nil && !os.IsNotExist(err) {
		return created, fmt.Errorf("scaffold: read %s: %w", gitignorePath, err)
	}
	content := string(existing)
	changed := false
	for _, entry := range gitignoreEntries {
		if containsLine(content, entry) {
			continue
		}
		if len(content) > 0 && content[len(content)-1] != '\n' {
			content += "\n"
		}
		content += entry + "\n"
		changed = true
	}
	if changed {
		if writeErr := os.WriteFile(gitignorePath, []byte(content), 0644); writeErr != nil {
			return created, fmt.Errorf("scaffold: write %s: %w", gitignorePath, writeErr)
		}
		created = append(created, gitignorePath)
	}

	return created, nil
}

func containsLine(content, line string) bool {
	for _, l := range strings.Split(content, "\n") {
		if strings.TrimSpace(l) == line {
			return true
		}
	}
	return false
}

const configTemplate = `# ntfy.toml - Klipper ntfy notification plugin

[ntfy_module]
server = "ntfy.sh"
port = 443                       # non-443 ports are added to the URL
topic = "klipper"                # required; [A-Za-z0-9._~-] only
title = "Klipper Notification"   # default title when TITLE is not given
link = ""                        # click-through URL (empty = no Click header)
token = ""                       # bearer token; prefer NTFY_TOKEN in .env
verbose = false                  # echo status and errors to the console

[log]
level = "warn"
path = ""                        # empty = stderr

[metrics]
pushgateway_url = ""             # empty = metrics are not pushed
job = "klipper_ntfy"

[history]
enabled = false
dir = ".ntfy/history"
retention = 20                   # session files to keep; 0 = unlimited

[console]
accent_color = "#7D56F4"
`

const envTemplate = `# Copy to .env; values here override ntfy.toml, the process environment overrides both.
NTFY_TOKEN=
#NTFY_TOPIC=
#NTFY_VERBOSE=true
`
