package config

import "time"

var AppVersion = "DEVELOPMENT"

const (
	AppName           = "brlplus"
	HistoryDbFile     = "history.db"
	CheckpointDbFile  = "checkpoints.db"
	LogFile           = "brlplus.log"
	PidFile           = "brlplus.pid"
	CfgFile           = "config.toml"
	UserDir           = "user"
	TablesDirName     = "tables"
	ProfilesDirName   = "profiles"
	SpoolDirName      = "spool"
	ApiRequestTimeout = 30 * time.Second
)
