package mee

import (
	"github.com/amonsch/mee-cli/engine"
	"github.com/amonsch/mee-cli/source"
)

type Instance struct {
	Store *source.Store
}

func Open(store *source.Store) *Instance {
	return &Instance{
		Store: store,
	}
}

// OpenDir opens an instance over a local data directory.
func OpenDir(dir string) *Instance {
	return Open(source.NewDirStore(dir))
}

func (instance *Instance) Engine() *engine.Engine {
	return engine.NewEngine(instance.Store)
}
