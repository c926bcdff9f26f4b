package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/opradox/opradox-cli/pkg/client"
	"github.com/opradox/opradox-cli/pkg/files"
	"github.com/opradox/opradox-cli/pkg/history"
	"github.com/opradox/opradox-cli/pkg/models"
)

// CommandContext manages project validation and common command context
type CommandContext struct {
	ProjectPath string
	Settings    *models.Settings
	// APIURL overrides the backend URL from settings and environment.
	APIURL    string
	validated bool
}

// NewCommandContext creates a new command context
func NewCommandContext() *CommandContext {
	return &CommandContext{
		ProjectPath: files.OpradoxDir,
		APIURL:      apiURL,
	}
}

// ValidateProject ensures the project is initialized
func (c *CommandContext) ValidateProject() error {
	if c.validated {
		return nil
	}

	if _, err := os.Stat(c.ProjectPath); os.IsNotExist(err) {
		return fmt.Errorf("no .opradox directory found. Run 'opradox init' first")
	}

	c.validated = true
	return nil
}

// LoadSettings reads settings once. A broken settings file is an error; a
// missing one yields defaults.
func (c *CommandContext) LoadSettings() (*models.Settings, error) {
	if c.Settings != nil {
		return c.Settings, nil
	}

	settings, err := files.ReadSettings()
	if err != nil {
		return nil, err
	}
	if c.APIURL != "" {
		settings.Backend.URL = c.APIURL
	}

	c.Settings = settings
	return settings, nil
}

// LoadSettingsWithDefault loads settings or returns default if error
func (c *CommandContext) LoadSettingsWithDefault() *models.Settings {
	settings, err := c.LoadSettings()
	if err != nil {
		PrintWarning("Using default settings: %v", err)
		settings = models.DefaultSettings()
		if c.APIURL != "" {
			settings.Backend.URL = c.APIURL
		}
		c.Settings = settings
	}
	return settings
}

// Logger is the diagnostic logger handed to library packages.
func (c *CommandContext) Logger() *slog.Logger {
	return Logger()
}

// Client builds a backend client from the settings.
func (c *CommandContext) Client() (*client.Client, error) {
	settings, err := c.LoadSettings()
	if err != nil {
		return nil, err
	}
	timeout, err := files.Timeout(settings)
	if err != nil {
		return nil, err
	}
	return client.New(settings.Backend.URL,
		client.WithTimeout(timeout),
		client.WithLogger(c.Logger()),
	), nil
}

// History opens the run history database of the project.
func (c *CommandContext) History() (*history.Store, error) {
	return history.Open(files.HistoryPath())
}

var apiURL string

// SetAPIURL records the --api-url flag.
func SetAPIURL(url string) {
	apiURL = url
}
