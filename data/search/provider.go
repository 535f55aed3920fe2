package search

import "github.com/google/wire"

// ProviderSet is the wire provider set for the search package.
// It expects a *config.Search and yields the Backend selected by its engine.
var ProviderSet = wire.NewSet(NewBackend)
