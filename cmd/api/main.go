package main

import (
	"io"
	"log"
	"os"

	"github.com/quizhub/quizhub-api/internal/config"
	"github.com/quizhub/quizhub-api/internal/logging"
	"github.com/quizhub/quizhub-api/internal/repository/postgres"
	"github.com/quizhub/quizhub-api/internal/service"
	transporthttp "github.com/quizhub/quizhub-api/internal/transport/http"
	"github.com/quizhub/quizhub-api/internal/transport/mail"
	"github.com/quizhub/quizhub-api/internal/util"
)

func main() {
	cfg := config.Load()

	if cfg.LogstashTCPAddr != "" {
		writer, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			log.Printf("Warning: logstash disabled: %v", err)
		} else {
			defer writer.Close()
			log.SetOutput(io.MultiWriter(os.Stderr, writer))
		}
	}

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	accounts := postgres.NewAccountRepo(db)
	mailer := mail.NewAccountMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.FrontendBaseURL)
	jwtManager := util.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL, cfg.VerificationTTL)
	auth := service.NewAuthService(accounts, mailer, jwtManager, cfg.PasswordResetTTL, cfg.GoogleAudience)

	e := transporthttp.NewRouter(cfg.AllowOrigins)
	transporthttp.RegisterAuth(e, auth, cfg.CookieSecure)
	transporthttp.RegisterSwagger(e)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
