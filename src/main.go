package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path"
	"regexp"
	"slices"
	"strings"
	"syscall"
	"time"
	"wedding/src/boot"
	"wedding/src/config"
	"wedding/src/lib"
	"wedding/src/middlewares"
	"wedding/src/types"
	"wedding/src/utils"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	apiPrefix string = "/api/v1"
)

var simpleEmail validator.Func = func(fl validator.FieldLevel) bool {
	email, ok := fl.Field().Interface().(string)
	return ok && utils.IsValidEmail(utils.NormalizeEmail(email))
}

var giftCategory validator.Func = func(fl validator.FieldLevel) bool {
	category, ok := fl.Field().Interface().(string)
	return ok && slices.Contains(types.GiftCategories, category)
}

var galleryCategory validator.Func = func(fl validator.FieldLevel) bool {
	category, ok := fl.Field().Interface().(string)
	return ok && slices.Contains(types.GalleryCategories, category)
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("notblank", validators.NotBlank)
		v.RegisterValidation("simpleemail", simpleEmail)
		v.RegisterValidation("giftcategory", giftCategory)
		v.RegisterValidation("gallerycategory", galleryCategory)
	}
}

// respondError writes the error body, adding the per-item detail for
// availability conflicts and the offending field for duplicates.
func respondError(ctx *gin.Context, status int, err error) {
	var conflict *types.AvailabilityConflictError
	if errors.As(err, &conflict) {
		msgs := make([]string, 0, len(conflict.Issues))
		for _, issue := range conflict.Issues {
			msgs = append(msgs, issue.String())
		}
		ctx.JSON(status, gin.H{
			"error":              "Some items are no longer available",
			"availabilityIssues": conflict.Issues,
			"message":            strings.Join(msgs, "; "),
		})
		return
	}
	var duplicate *types.DuplicateEntryError
	if errors.As(err, &duplicate) {
		ctx.JSON(status, gin.H{"error": err.Error(), "field": duplicate.Field})
		return
	}
	if status >= http.StatusInternalServerError {
		ctx.JSON(status, gin.H{"error": "something went wrong"})
		return
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		if config.Get().MaintenanceMode {
			err := errors.New("server is under maintenance")
			log.Println(err.Error())
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, err.Error())
			return
		}
	})
	return g
}

func corsMiddleware(g *gin.Engine) *gin.Engine {
	if config.IsLocal() {
		g.Use(cors.Default())
		return g
	}
	appHost := config.Get().AppHost
	cc := cors.DefaultConfig()
	cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
	cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
	cc.AllowOriginFunc = func(origin string) bool {
		match, _ := regexp.MatchString(appHost, origin)
		return match
	}
	cc.AllowCredentials = true
	cc.AllowAllOrigins = false
	g.Use(cors.New(cc))
	return g
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.MaxMultipartMemory = config.Get().GalleryMaxBytes + 1<<20
	router.Use(otelgin.Middleware(config.Get().ServiceName))
	router.Use(middlewares.SecureHeaders)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	corsMiddleware(router)
	registerValidators()
	router = maintenanceModeMiddleware(router)

	apiv1 := router.Group(apiPrefix)
	giftHandlers(apiv1)
	orderHandlers(apiv1)
	rsvpHandlers(apiv1)
	galleryHandlers(apiv1)
	contactHandlers(apiv1)
	adminLoginHandler(apiv1)

	admin := router.Group(apiPrefix + "/admin")
	admin.Use(middlewares.AdminAuthMiddleware)
	adminHandlers(admin)

	return router
}

func initLogger() {
	cwd, _ := os.Getwd()
	logsDir := path.Join(cwd, "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		log.Printf("Error creating logs directory: %s\n", err.Error())
		return
	}
	serverLogs := path.Join(logsDir, "server.log")
	apiLogs := path.Join(logsDir, "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	}))
}

func main() {
	if os.Getenv("API_ENV") == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			log.Printf("No .env file loaded: %s\n", err.Error())
		}
	}
	initLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := lib.InitTracer(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	if tp != nil {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Printf("Error shutting down tracer: %v", err)
			}
		}()
	}
	mp, err := lib.InitMetrics(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}
	if mp != nil {
		defer func() {
			if err := mp.Shutdown(context.Background()); err != nil {
				log.Printf("Error shutting down meter: %v", err)
			}
		}()
	}

	boot.InitDb()
	if _, err := boot.SeedGifts(ctx); err != nil {
		log.Printf("Gift catalogue not seeded: %s\n", err.Error())
	}
	boot.InitScheduler()
	defer boot.StopScheduler()

	router := setupRouter()
	srv := &http.Server{
		Addr:         ":" + config.Get().Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
	}
	go func() {
		log.Printf("Listening on %s\n", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %s", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down server: %s\n", err.Error())
	}
}
