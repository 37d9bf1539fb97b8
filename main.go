package TemporalDB

import (
	"github.com/nickyhof/TemporalDB/core"
	"github.com/nickyhof/TemporalDB/db"
	"github.com/nickyhof/TemporalDB/ps"
)

type Instance struct {
	Persistence *ps.Persistence
}

func Open(persistence *ps.Persistence) *Instance {
	return &Instance{
		Persistence: persistence,
	}
}

func (instance *Instance) Engine(identity core.Identity) *db.Engine {
	return db.NewEngine(instance.Persistence, identity)
}
