//go:build wireinject
// +build wireinject

package di

import (
	"talentpay/internal"
	"talentpay/internal/structures"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(appSet)

	return nil, nil, nil
}

func InitCli(cfg *structures.CliFlags) (*Cli, func(), error) {

	wire.Build(
		coreSet,
		wire.Struct(new(Cli), "*"),
	)

	return nil, nil, nil
}
