package main

import (
	"github.com/spf13/cobra"

	"github.com/ethnosapp/ethnos/internal/config"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the global configuration",
}

// ConfigResponse is the JSON view of the configuration. The API key is
// reported only as present or absent.
type ConfigResponse struct {
	APIBaseURL string `json:"api_base_url,omitempty"`
	APIKeySet  bool   `json:"api_key_set"`
	ExportDir  string `json:"export_dir"`
	DataDir    string `json:"data_dir"`
	LogLevel   string `json:"log_level,omitempty"`
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the effective configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}

		resp := ConfigResponse{
			APIBaseURL: cfg.APIBaseURL,
			APIKeySet:  cfg.APIKey != "",
			ExportDir:  cfg.ExportDir,
			DataDir:    cfg.DataDir,
			LogLevel:   cfg.LogLevel,
		}
		if humanOutput {
			outputHuman("api_base_url: %s\napi_key_set: %v\nexport_dir: %s\ndata_dir: %s\nlog_level: %s\n",
				resp.APIBaseURL, resp.APIKeySet, resp.ExportDir, resp.DataDir, resp.LogLevel)
		} else {
			outputJSON(resp)
		}
	},
}

// UpdateResponse is the response for config set.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set one configuration key. Valid keys: api_base_url, api_key,
export_dir, data_dir, log_level.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key, value := args[0], args[1]

		cfg, err := config.Load()
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}

		switch key {
		case "api_base_url":
			cfg.APIBaseURL = value
		case "api_key":
			cfg.APIKey = value
		case "export_dir":
			cfg.ExportDir = value
		case "data_dir":
			cfg.DataDir = value
		case "log_level":
			cfg.LogLevel = value
		default:
			exitWithError(ExitDataError, "unknown config key %q", key)
		}

		if err := cfg.Save(); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		if humanOutput {
			outputHuman("%s = %s\n", key, value)
		} else {
			outputJSON(UpdateResponse{Status: "ok", Key: key, Value: value})
		}
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Run: func(cmd *cobra.Command, args []string) {
		if humanOutput {
			outputHuman("%s\n", config.Path())
		} else {
			outputJSON(StatusResponse{Status: "ok", Path: config.Path()})
		}
	},
}
