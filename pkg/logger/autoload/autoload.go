// Package autoload initializes the global logger from the LOG_* environment
// on import, so main can wire it with a blank import.
package autoload

import (
	"github.com/kelseyhightower/envconfig"

	logx "github.com/supportline/supportline/pkg/logger"
)

func init() {
	var conf logx.Config
	if err := envconfig.Process("LOG", &conf); err != nil {
		conf = *logx.DefaultConfig
	}
	logx.Init(conf)
}
