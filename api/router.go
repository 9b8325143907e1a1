// Package api contains all endpoints available
package api

import (
	"fmt"
	"net/http"
	"time"

	"contactbook/contacts-api/db"
	"contactbook/contacts-api/internal"
	"contactbook/contacts-api/internal/service"
	"contactbook/contacts-api/pkg/middleware"
	"contactbook/contacts-api/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	*internal.Deps

	Router *gin.Engine
}

func NewRouter() (*API, error) {
	database, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	makeLogger()

	avatars, err := service.NewAvatarStore()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize avatar storage, %w", err)
	}

	a := &API{
		Deps: &internal.Deps{
			DB:      database,
			Argon:   security.New(),
			Mailer:  service.NewSMTPMailer(),
			Avatars: avatars,
		},
	}
	a.Router = a.buildRouter()

	service.ResendCleanup(time.Hour, database)

	return a, nil
}

func (a *API) buildRouter() *gin.Engine {
	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 5 << 20

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found this page"})
	})

	if viper.GetString("storage.type") == "local" {
		router.Static("/avatars", viper.GetString("storage.avatar_dir"))
	}

	jwt := middleware.NewJWTMiddleware(a.DB)
	limit := middleware.BodySizeLimiter(1 << 20)
	maxUploadSize := viper.GetInt64("upload.max_size")

	// HEAD /heartbeat 		-> Used to check if the server is alive
	router.HEAD("/heartbeat", cacheFor(30), a.Heartbeat)

	// POST /signup 		-> Registers a new account and mails a verification link
	router.POST("/signup", limit, a.Signup)

	// GET /verify/:token 		-> Exchanges a mailed token for a verified account
	router.GET("/verify/:token", a.VerifyEmail)

	// POST /verify 		-> Re-sends the verification mail
	router.POST("/verify", limit, a.ResendVerification)

	// POST /login 			-> Logs in a user and returns a JWT token
	router.POST("/login", limit, a.Login)

	// GET /logout 			-> Clears the caller's session token
	router.GET("/logout", jwt, a.Logout)

	// PATCH / 			-> Changes the caller's subscription tier
	router.PATCH("/", jwt, limit, a.UpdateSubscription)

	// PATCH /avatars 		-> Uploads a new avatar image
	router.PATCH("/avatars", jwt, middleware.BodySizeLimiter(maxUploadSize), a.UpdateAvatar)

	contacts := router.Group("/contacts", jwt)
	{
		// GET /contacts		-> Lists contacts with paging and a favorite filter
		contacts.GET("", a.ContactList)

		// GET /contacts/:contactID	-> Returns a single contact
		contacts.GET("/:contactID", a.ContactFetch)

		// POST /contacts		-> Creates a contact
		contacts.POST("", limit, a.ContactCreate)

		// PUT /contacts/:contactID	-> Replaces a contact's fields
		contacts.PUT("/:contactID", limit, a.ContactUpdate)

		// DELETE /contacts/:contactID	-> Deletes a contact
		contacts.DELETE("/:contactID", a.ContactDelete)

		// PATCH /contacts/:contactID/favorite -> Updates only the favorite flag
		contacts.PATCH("/:contactID/favorite", limit, a.ContactFavorite)
	}

	return router
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
