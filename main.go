package main

import (
	"flag"

	"github.com/venturehub/forum/config"
	"github.com/venturehub/forum/models"
	"github.com/venturehub/forum/routes"
	"github.com/venturehub/forum/services"
	"github.com/venturehub/forum/utils"
)

func main() {
	seed := flag.Bool("seed", false, "create the default category tree and exit")
	flag.Parse()

	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.UserProfile{},
		&models.Category{},
		&models.Topic{},
		&models.Post{},
	)

	if *seed {
		if err := services.SeedDefaultCategories(db); err != nil {
			utils.Sugar.Fatalf("seeding categories failed: %v", err)
		}
		utils.Sugar.Info("default categories seeded")
		return
	}

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
