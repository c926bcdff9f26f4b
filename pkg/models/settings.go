package models

// Settings represents the application configuration
type Settings struct {
	Backend BackendSettings `yaml:"backend"`
	Builder BuilderSettings `yaml:"builder"`
	UI      UISettings      `yaml:"ui"`
	Output  OutputSettings  `yaml:"output"`
}

// BackendSettings controls how the opradox API is reached
type BackendSettings struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"` // e.g. "60s"
}

// BuilderSettings controls how pipelines are submitted
type BuilderSettings struct {
	Scenario   string `yaml:"scenario"`
	ParamField string `yaml:"param_field"` // multipart field carrying the payload
	ActionsKey string `yaml:"actions_key"` // key of the action array inside the payload
}

// UISettings controls UI preferences
type UISettings struct {
	Theme    string `yaml:"theme"`    // "night" or "day"
	Language string `yaml:"language"` // "tr" or "en"
}

// OutputSettings controls where exported files go
type OutputSettings struct {
	DownloadPath  string `yaml:"download_path"`
	DefaultFormat string `yaml:"default_format"` // xlsx, csv or json
}

// DefaultSettings returns the default configuration
func DefaultSettings() *Settings {
	return &Settings{
		Backend: BackendSettings{
			URL:     "http://localhost:8000",
			Timeout: "120s",
		},
		Builder: BuilderSettings{
			Scenario:   "visual_builder",
			ParamField: "params",
			ActionsKey: "actions",
		},
		UI: UISettings{
			Theme:    "night",
			Language: "en",
		},
		Output: OutputSettings{
			DownloadPath:  "./",
			DefaultFormat: "xlsx",
		},
	}
}
