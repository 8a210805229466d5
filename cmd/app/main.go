package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"vamo/cmd/fx/chat_fx"
	"vamo/cmd/fx/controllers_fx"
	"vamo/cmd/fx/editor_fx"
	"vamo/cmd/fx/planner_fx"
	"vamo/cmd/fx/plans_fx"
	"vamo/internal/api/controllers"
	"vamo/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	app := fx.New(
		planner_fx.Module,
		plans_fx.Module,
		chat_fx.Module,
		editor_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	planController *controllers.PlanController,
	chatController *controllers.ChatController,
	editorController *controllers.EditorController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.NewRateLimiter(5, 10).Middleware())

	RegisterRoutes(r, planController, chatController, editorController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	planController *controllers.PlanController,
	chatController *controllers.ChatController,
	editorController *controllers.EditorController) {

	plansGroup := r.Group("/plans")
	plansGroup.GET("", planController.GetPlans)
	plansGroup.GET("/current", planController.GetCurrentPlan)
	plansGroup.GET("/:planId", planController.GetPlanById)
	plansGroup.PATCH("/:planId", planController.UpdatePlan)
	plansGroup.DELETE("/:planId", planController.DeletePlan)
	plansGroup.POST("/generate", planController.GeneratePlan)
	plansGroup.POST("/review", planController.ReviewPlan)

	chatGroup := r.Group("/conversations")
	chatGroup.POST("", chatController.CreateConversation)
	chatGroup.GET("", chatController.GetConversations)
	chatGroup.GET("/:conversationId", chatController.GetConversation)
	chatGroup.DELETE("/:conversationId", chatController.DeleteConversation)
	chatGroup.POST("/messages", chatController.SendMessage)
	chatGroup.POST("/messages/stream", chatController.StreamMessage)
	chatGroup.POST("/generate-plan", chatController.GeneratePlanFromConversation)

	editorGroup := r.Group("/editor/sessions")
	editorGroup.POST("", editorController.StartSession)
	editorGroup.GET("/:sessionId", editorController.GetSession)
	editorGroup.POST("/:sessionId/add-activity", editorController.AddActivity)
	editorGroup.POST("/:sessionId/update-activity", editorController.UpdateActivity)
	editorGroup.POST("/:sessionId/delete-activity", editorController.DeleteActivity)
	editorGroup.POST("/:sessionId/lock-activity", editorController.SetActivityLock)
	editorGroup.POST("/:sessionId/toggle-day", editorController.ToggleDay)
	editorGroup.POST("/:sessionId/save", editorController.SaveSession)
}
