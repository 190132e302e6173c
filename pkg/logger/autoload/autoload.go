// Package autoload configures the global logger from the environment when
// blank-imported.
package autoload

import (
	configx "github.com/homelocar/sofia/pkg/config"
	logx "github.com/homelocar/sofia/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
