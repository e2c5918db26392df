// @title StickCal API
// @description Gamified calendar API: events, completions, achievements, leaderboard
// @BasePath /api/v1
// @schemes http
package main

import (
	"log"

	"github.com/google/uuid"
	"github.com/stickcal/stickcal/internal/api"
	"github.com/stickcal/stickcal/internal/jobs"
	"github.com/stickcal/stickcal/internal/repository"
	"github.com/stickcal/stickcal/internal/service"
	"github.com/stickcal/stickcal/internal/watch"
	"github.com/stickcal/stickcal/pkg/cleanup"
	"github.com/stickcal/stickcal/pkg/config"
	"github.com/stickcal/stickcal/pkg/entity"
	jwtservice "github.com/stickcal/stickcal/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	defer cleanup.CleanUp()
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	usersRepo := repository.NewUsersRepo(&dbCfg)
	eventsRepo := repository.NewEventsRepo(&dbCfg)
	profilesRepo := repository.NewProfilesRepo(&dbCfg)

	eventsHub := watch.NewKeyedHub[uuid.UUID, []*entity.Event]()
	leaderboardHub := watch.NewHub[[]entity.LeaderboardEntry]()

	userService := service.NewUserService(usersRepo, profilesRepo)
	eventsService := service.NewEventsService(eventsRepo, eventsHub)
	profileService := service.NewProfileService(profilesRepo, leaderboardHub)
	completionService := service.NewCompletionService(eventsRepo, profilesRepo, eventsService, profileService)

	auditor := jobs.NewStreakAuditor(profilesRepo, profileService)
	if err := auditor.Start(); err != nil {
		log.Fatal("starting streak auditor error: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "stopping streak auditor",
		F: func() error {
			auditor.Stop()
			return nil
		},
	})

	serv := api.New(&api.ServicesList{
		UserService:       userService,
		EventsService:     eventsService,
		CompletionService: completionService,
		ProfileService:    profileService,
		JwtService:        jwtservice.New(cfg.GetString("JWT_SECRET")),
	})
	err := serv.Run(cfg.GetStringOr("API_ADDRESS", ":8080"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
