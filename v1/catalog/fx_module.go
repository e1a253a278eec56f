package catalog

import "go.uber.org/fx"

// FXModule provides *Catalog. It expects a vectordb.Index and a
// logger.Logger in the graph.
var FXModule = fx.Module("catalog",
	fx.Provide(New),
)
