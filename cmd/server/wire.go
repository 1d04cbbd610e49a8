// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"voluntr_backend/internal/app"
	"voluntr_backend/internal/auth"
	"voluntr_backend/internal/config"
	"voluntr_backend/internal/firebase"
	"voluntr_backend/internal/friend"
	"voluntr_backend/internal/jobs"
	"voluntr_backend/internal/shared"
	"voluntr_backend/internal/user"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		provideLogger,
		provideDatabase,
		provideRedis,

		// Identity provider
		firebase.NewFirebaseService,
		wire.Bind(new(shared.TokenVerifier), new(*firebase.FirebaseService)),

		// Accounts
		user.NewGORMRepository,
		user.NewService,
		wire.Bind(new(shared.IdentityResolver), new(*user.ServiceImplementation)),
		user.NewHandler,

		// Authentication
		auth.NewService,
		auth.NewGate,
		auth.NewHandler,

		// Friend graph
		friend.NewGORMRepository,
		friend.NewService,
		friend.NewHandler,
		app.NewFriendRequestLimiter,
		wire.Bind(new(jobs.RequestPruner), new(friend.Service)),
		jobs.NewRequestPruneJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
