package healthcheck

import (
	"github.com/brickmark/goapi/base/ctx"
)

// UseCase represents the healthcheck's usecases
type UseCase interface {
	Check(context ctx.Ctx) error
}

// Repo is repository layer of healthcheck
type Repo interface {
	PingDB(context ctx.Ctx) error
}
