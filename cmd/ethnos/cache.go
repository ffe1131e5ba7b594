package main

import (
	"github.com/spf13/cobra"

	"github.com/ethnosapp/ethnos/internal/cache"
)

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheInfoCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the API response cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached API response",
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()
		defer a.Close()

		a.client.Cache().Clear()
		if humanOutput {
			outputHuman("Cache limpo\n")
		} else {
			outputJSON(StatusResponse{Status: "ok"})
		}
	},
}

// CacheInfoResponse describes the response cache state.
type CacheInfoResponse struct {
	Entries    int    `json:"entries"`
	TTLSeconds int    `json:"ttl_seconds"`
	MaxEntries int    `json:"max_entries"`
	Database   string `json:"database"`
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache entry count and limits",
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()
		defer a.Close()

		info := CacheInfoResponse{
			Entries:    a.client.Cache().Len(),
			TTLSeconds: int(cache.DefaultTTL.Seconds()),
			MaxEntries: cache.DefaultMaxEntries,
			Database:   a.cfg.DBPath(),
		}
		if humanOutput {
			outputHuman("Entradas: %d (máx. %d, TTL %ds)\nBanco: %s\n",
				info.Entries, info.MaxEntries, info.TTLSeconds, info.Database)
		} else {
			outputJSON(info)
		}
	},
}
