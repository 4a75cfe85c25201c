// Package logger expone un logger Zap único para todo el proceso y loggers
// "scoped" por request que viajan en el context.Context.
//
// Inicialización (una vez, en el comando serve):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "blogweb"})
//	defer logger.Sync()
//
// En controllers/services:
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("RoleService.Delete"))
//	log.Info("role deleted", logger.RoleID(id))
package logger
