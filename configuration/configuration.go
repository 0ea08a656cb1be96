package configuration

import (
	"os"
	"path/filepath"
)

const (
	ModeConsole = "console"
	ModeHttp    = "http"
)

type Configuration struct {
	Mode              string `usage:"console | http"`
	HttpAddr          string `usage:"HTTP address"`
	Interactive       bool   `usage:"line editing and history for the console"`
	HistoryFile       string `usage:"console history file"`
	CommitOnEnd       bool   `usage:"commit open transactions on END instead of abandoning them"`
	ApiKey            string `usage:"API key required by the HTTP api"`
	ApiSecret         string `usage:"API secret required by the HTTP api"`
	JwtSecret         string `usage:"HS256 secret to validate bearer tokens"`
	EnableCompression bool   `usage:"gzip HTTP responses"`
	Version           bool   `usage:"show version and exit"`
	ShowBanner        bool   `usage:"show big banner"`
	ShowConfig        bool   `usage:"print config"`
}

func Default() Configuration {

	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".inmemdb_history")
	}

	return Configuration{
		Mode:        ModeConsole,
		HttpAddr:    "127.0.0.1:8080",
		HistoryFile: historyFile,
	}
}
