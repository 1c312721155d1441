package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/teamforge/teamforge-api/internal/config"
	"github.com/teamforge/teamforge-api/internal/constants"
	"github.com/teamforge/teamforge-api/internal/database"
	"github.com/teamforge/teamforge-api/internal/handlers"
	"github.com/teamforge/teamforge-api/internal/middleware"
	"github.com/teamforge/teamforge-api/internal/repository"
	"github.com/teamforge/teamforge-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if cfg.DBDriver == "postgres" {
		if err := database.MigrateDatabase(database.GetDB()); err != nil {
			log.Fatalf("Failed to add indexes: %v", err)
		}
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	orgService := services.NewOrganizationService(orgRepo, membershipRepo)
	membershipService := services.NewMembershipService(membershipRepo, userRepo, orgRepo)
	invitationService := services.NewInvitationService(invitationRepo, orgRepo)
	catalogService := services.NewCatalogService(catalogRepo)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, orgRepo, catalogRepo)
	entitlementService := services.NewEntitlementService(subscriptionRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	membershipHandler := handlers.NewMembershipHandler(membershipService)
	invitationHandler := handlers.NewInvitationHandler(invitationService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, entitlementService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "TeamForge API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Organization routes (protected)
		orgs := api.Group("/organizations")
		orgs.Use(middleware.RequireAuth())
		{
			orgs.POST("", orgHandler.CreateOrganization)
			orgs.GET("/:id", middleware.RequireOrganizationAccess(), orgHandler.GetOrganization)
			orgs.PUT("/:id", middleware.RequireOrganizationAccess(), orgHandler.UpdateOrganization)
			orgs.POST("/:id/teams", middleware.RequireOrganizationAccess(), orgHandler.CreateTeam)
			orgs.GET("/:id/teams", middleware.RequireOrganizationAccess(), orgHandler.ListTeams)
		}

		// Invitation routes; accept/decline are public since the invited
		// user has no session yet
		invitations := api.Group("/invitations")
		{
			invitations.POST("/accept/:token", invitationHandler.AcceptInvitation)
			invitations.POST("/decline/:token", invitationHandler.DeclineInvitation)

			protected := invitations.Group("")
			protected.Use(middleware.RequireAuth())
			{
				protected.POST("", invitationHandler.CreateInvitation)
				protected.GET("", invitationHandler.ListInvitations)
				protected.POST("/resend/:id", invitationHandler.ResendInvitation)
				protected.POST("/cancel/:id", invitationHandler.CancelInvitation)
				protected.PATCH("/:id", invitationHandler.UpdateInvitation)
				protected.DELETE("/:id", invitationHandler.DeleteInvitation)
			}
		}

		// Membership registry routes (protected)
		memberships := api.Group("/user-organizations")
		memberships.Use(middleware.RequireAuth())
		{
			memberships.POST("/add", membershipHandler.AddMember)
			memberships.POST("/remove", membershipHandler.RemoveMember)
			memberships.GET("/user/:userId", membershipHandler.ListOrganizationsForUser)
			memberships.GET("/org/:organizationId", membershipHandler.ListUsersInOrganization)
		}

		// Subscription ledger + entitlement routes (protected)
		subs := api.Group("/org-subs")
		subs.Use(middleware.RequireAuth())
		{
			subs.POST("", subscriptionHandler.Subscribe)
			subs.POST("/cancel", subscriptionHandler.Cancel)
			subs.GET("/active/:orgId", subscriptionHandler.GetActive)
			subs.GET("/list/:orgId", subscriptionHandler.ListHistory)
			subs.GET("/has-feature", subscriptionHandler.HasFeature)
		}

		// Catalog routes (protected)
		features := api.Group("/features")
		features.Use(middleware.RequireAuth())
		{
			features.POST("", catalogHandler.CreateFeature)
			features.GET("", catalogHandler.ListFeatures)
			features.GET("/:id", catalogHandler.GetFeature)
			features.PUT("/:id", catalogHandler.UpdateFeature)
			features.DELETE("/:id", catalogHandler.DeleteFeature)
			features.POST("/:id/activate", catalogHandler.ActivateFeature)
			features.POST("/:id/deactivate", catalogHandler.DeactivateFeature)
		}

		plans := api.Group("/plans")
		plans.Use(middleware.RequireAuth())
		{
			plans.POST("", catalogHandler.CreatePlan)
			plans.GET("", catalogHandler.ListPlans)
			plans.GET("/:id", catalogHandler.GetPlan)
			plans.PUT("/:id", catalogHandler.UpdatePlan)
			plans.DELETE("/:id", catalogHandler.DeletePlan)
			plans.POST("/:id/activate", catalogHandler.ActivatePlan)
			plans.POST("/:id/deactivate", catalogHandler.DeactivatePlan)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
