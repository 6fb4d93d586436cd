package structures

import "net/http"

type Route struct {
	Method  string
	Url     string
	Handler http.Handler
	Roles   []string
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
	PeriodID   string
}
