package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/vietanh2810/trivia-live-api/docs"
	v1 "github.com/vietanh2810/trivia-live-api/internal/api/handler/v1"
	"github.com/vietanh2810/trivia-live-api/internal/api/middleware"
	"github.com/vietanh2810/trivia-live-api/internal/config"
	"github.com/vietanh2810/trivia-live-api/internal/realtime"
	"github.com/vietanh2810/trivia-live-api/internal/repository"
	"github.com/vietanh2810/trivia-live-api/internal/repository/dao"
	"github.com/vietanh2810/trivia-live-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	broker *realtime.Broker
	hub    *realtime.Hub
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	broker := realtime.NewBroker()
	hub := realtime.NewHub(broker)
	go hub.Run()

	s := &Server{
		Config: conf,
		Router: engine,
		broker: broker,
		hub:    hub,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	eventHandler, eventSvc := s.initEventHandler(db)
	roundHandler := s.initRoundHandler(db)
	questionHandler := s.initQuestionHandler(db)
	scoringHandler := s.initScoringHandler(db)
	liveHandler := v1.NewLiveHandler(hub, eventSvc)
	s.MountHandlers(authHandler, userHandler, eventHandler, roundHandler, questionHandler, scoringHandler, liveHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewUserService(repo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initEventHandler(db *gorm.DB) (*v1.EventHandler, *service.EventService) {
	eventDAO := dao.NewEventDAO(db)
	repo := repository.NewEventRepository(eventDAO)
	teamRepo := repository.NewTeamRepository(dao.NewTeamDAO(db))
	svc := service.NewEventService(repo, teamRepo, s.broker)
	handler := v1.NewEventHandler(svc)

	return handler, svc
}

func (s *Server) initRoundHandler(db *gorm.DB) *v1.RoundHandler {
	roundDAO := dao.NewRoundDAO(db)
	repo := repository.NewRoundRepository(roundDAO)
	svc := service.NewRoundService(repo, s.broker)
	handler := v1.NewRoundHandler(svc)

	return handler
}

func (s *Server) initQuestionHandler(db *gorm.DB) *v1.QuestionHandler {
	questionDAO := dao.NewQuestionDAO(db)
	repo := repository.NewQuestionRepository(questionDAO)
	roundRepo := repository.NewRoundRepository(dao.NewRoundDAO(db))
	svc := service.NewQuestionService(repo, roundRepo, s.broker)
	suggestSvc := service.NewSuggestionService(s.Config.Completion)
	handler := v1.NewQuestionHandler(svc, suggestSvc)

	return handler
}

func (s *Server) initScoringHandler(db *gorm.DB) *v1.ScoringHandler {
	responseDAO := dao.NewResponseDAO(db)
	repo := repository.NewResponseRepository(responseDAO)
	questionRepo := repository.NewQuestionRepository(dao.NewQuestionDAO(db))
	svc := service.NewScoringService(repo, questionRepo, s.broker)
	handler := v1.NewScoringHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	eventHandler *v1.EventHandler,
	roundHandler *v1.RoundHandler,
	questionHandler *v1.QuestionHandler,
	scoringHandler *v1.ScoringHandler,
	liveHandler *v1.LiveHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	// Team-facing surface. The join code is the credential; the live
	// feed and leaderboard are visible to anyone holding an event ID.
	public := s.Router.Group(basePath)
	{
		public.POST("/events/join", eventHandler.HandleJoinEvent)
		public.GET("/events/:eventID/leaderboard", scoringHandler.HandleLeaderboard)
		public.GET("/events/:eventID/live", liveHandler.HandleLive)
		public.POST("/questions/:questionID/responses", scoringHandler.HandleSubmitResponse)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.GET("/users/:userID", userHandler.HandleGetUser)

		authed.POST("/events", eventHandler.HandleCreateEvent)
		authed.GET("/events", eventHandler.HandleListEvents)
		authed.GET("/events/:eventID", eventHandler.HandleGetEvent)
		authed.PATCH("/events/:eventID", eventHandler.HandleUpdateEvent)
		authed.DELETE("/events/:eventID", eventHandler.HandleDeleteEvent)
		authed.POST("/events/:eventID/start", eventHandler.HandleStartEvent)
		authed.POST("/events/:eventID/complete", eventHandler.HandleCompleteEvent)
		authed.GET("/events/:eventID/teams", eventHandler.HandleListTeams)

		authed.POST("/events/:eventID/rounds", roundHandler.HandleCreateRound)
		authed.GET("/events/:eventID/rounds", roundHandler.HandleListRounds)
		authed.POST("/events/:eventID/rounds/advance", roundHandler.HandleAdvanceRound)
		authed.GET("/rounds/:roundID", roundHandler.HandleGetRound)
		authed.PATCH("/rounds/:roundID", roundHandler.HandleUpdateRound)
		authed.DELETE("/rounds/:roundID", roundHandler.HandleDeleteRound)
		authed.POST("/rounds/:roundID/start", roundHandler.HandleStartRound)
		authed.POST("/rounds/:roundID/complete", roundHandler.HandleCompleteRound)

		authed.POST("/rounds/:roundID/questions", questionHandler.HandleCreateQuestion)
		authed.GET("/rounds/:roundID/questions", questionHandler.HandleListQuestions)
		authed.POST("/rounds/:roundID/questions/advance", questionHandler.HandleAdvanceQuestion)
		authed.GET("/questions/:questionID", questionHandler.HandleGetQuestion)
		authed.PATCH("/questions/:questionID", questionHandler.HandleUpdateQuestion)
		authed.DELETE("/questions/:questionID", questionHandler.HandleDeleteQuestion)
		authed.POST("/questions/:questionID/start", questionHandler.HandleStartQuestion)
		authed.POST("/questions/:questionID/complete", questionHandler.HandleCompleteQuestion)
		authed.POST("/questions/suggest", questionHandler.HandleSuggestQuestions)

		authed.GET("/questions/:questionID/responses", scoringHandler.HandleListResponses)
		authed.POST("/responses/:responseID/grade", scoringHandler.HandleGradeResponse)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Trivia Live API"
	docs.SwaggerInfo.Description = "Management and realtime sync API for live trivia events."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
