package main

import (
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"agentpoker-server/internal/config"
	"agentpoker-server/internal/jwt"
	"agentpoker-server/internal/mux"
	"agentpoker-server/internal/rng"
	"agentpoker-server/pkg/room"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", "", "the listen address")

func main() {
	flag.Parse()
	setupLogger()

	// fail fast
	jwt.LoadKeys()

	manager := room.NewManager(logrus.StandardLogger(), rng.Crypto{})
	manager.StartShift()

	if err := mux.OpenConfiguredTables(manager); err != nil {
		logrus.WithError(err).Fatal("could not open tables")
	}

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	})

	srv := &http.Server{
		Addr:         listenAddr(),
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, manager))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logrus.WithField("addr", srv.Addr).Info("listening")
	logrus.Fatal(srv.ListenAndServe())
}

func listenAddr() string {
	if *addr != "" {
		return *addr
	}

	return config.Instance().Addr
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
