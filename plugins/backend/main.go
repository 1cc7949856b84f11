package main

import (
	"github.com/hashicorp/go-plugin"

	"shiori/internal/platform/backend"
)

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: backend.HandshakeConfig,
		Plugins:         backend.PluginMap(backend.NewServer()),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
