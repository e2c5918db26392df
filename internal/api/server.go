package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stickcal/stickcal/internal/service"
)

type Server struct {
	mx                *chi.Mux
	userService       service.UserServiceI
	eventsService     service.EventsServiceI
	completionService service.CompletionServiceI
	profileService    service.ProfileServiceI
	jwtService        JWTServiceI
}

type ServicesList struct {
	UserService       service.UserServiceI
	EventsService     service.EventsServiceI
	CompletionService service.CompletionServiceI
	ProfileService    service.ProfileServiceI
	JwtService        JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	return &Server{
		mx:                chi.NewMux(),
		userService:       servicesOptions.UserService,
		eventsService:     servicesOptions.EventsService,
		completionService: servicesOptions.CompletionService,
		profileService:    servicesOptions.ProfileService,
		jwtService:        servicesOptions.JwtService,
	}
}

func (s *Server) Routes() *chi.Mux {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/register", s.Register)
		r.Post("/login", s.Login)
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
			r.Post("/events", s.CreateEvent)
			r.Get("/events", s.GetMonthEvents)
			r.Get("/events/stream", s.StreamEvents)
			r.Get("/events/export.ics", s.ExportICS)
			r.Delete("/events/{id}", s.DeleteEvent)
			r.Post("/events/{id}/complete", s.CompleteEvent)
			r.Post("/events/{id}/complete/retry", s.RetryCompletion)
			r.Get("/profile", s.GetProfile)
			r.Get("/profile/achievements", s.GetAchievements)
			r.Get("/leaderboard", s.GetLeaderboard)
			r.Get("/leaderboard/stream", s.StreamLeaderboard)
			r.Delete("/account", s.DeleteAccount)
		})
	})
	return s.mx
}

func (s *Server) Run(address string) error {
	return http.ListenAndServe(address, s.Routes())
}
