// Command server wires the hex grid simulation engine to its HTTP
// dispatcher and observability listener, adapted from the teacher's
// cmd/server/main.go boot sequence (env loading, centralized config,
// engine construction, signal-driven shutdown) generalized from Kick
// OAuth/streaming wiring to the game/{create,get,subscribe,target,
// command,query} dispatcher.
package main

import (
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hexarena/internal/apiserver"
	"hexarena/internal/config"
	"hexarena/internal/engine"
	"hexarena/internal/observability"
	"hexarena/internal/ratelimit"
	"hexarena/internal/template"
	"hexarena/internal/transport"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables only")
	} else {
		log.Println("loaded environment from .env")
	}

	log.Println("================================")
	log.Println(" HEXARENA - GO ENGINE")
	log.Println("================================")

	appConfig := config.Load()

	catalog, skipped := loadTemplates(getEnvWithDefault("TEMPLATE_DIR", "assets"))
	for name, err := range skipped {
		log.Printf("template %q skipped: %v", name, err)
	}
	log.Printf("loaded %d entity templates", len(catalog))

	eng := engine.New(catalog, engine.Config{
		TickRate:          appConfig.Tick.TicksPerSecond,
		FortressTemplate:  appConfig.World.FortressTemplate,
		StartingResources: appConfig.World.StartingResources,
	}, rand.New(rand.NewSource(time.Now().UnixNano())))
	defer eng.Shutdown()

	hub := transport.NewHub(eng, appConfig.RateLimit.MaxWSPerIP)
	httpLimiter := ratelimit.NewHTTP(ratelimit.Config{
		RequestsPerSecond: appConfig.RateLimit.RequestsPerSecond,
		Burst:             appConfig.RateLimit.Burst,
	})
	defer httpLimiter.Stop()

	router := apiserver.NewRouter(apiserver.Config{
		Engine:      eng,
		Hub:         hub,
		RateLimiter: httpLimiter,
	})

	addr := ":" + strconv.Itoa(appConfig.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		log.Printf("dispatcher listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("dispatcher failed: %v", err)
		}
	}()

	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		debugAddr := "127.0.0.1:" + getEnvWithDefault("DEBUG_PORT", "9090")
		go func() {
			log.Printf("observability listening on %s", debugAddr)
			if err := http.ListenAndServe(debugAddr, observability.Handler()); err != nil {
				log.Printf("observability server disabled: %v", err)
			}
		}()
	}

	log.Println("server ready, press ctrl+c to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	srv.Close()
	log.Println("goodbye")
}

// loadTemplates merges every *.yaml file under dir into one Catalog;
// per-file load errors are collected into a name-keyed map rather than
// aborting startup, matching template.Load's per-entity tolerance.
func loadTemplates(dir string) (template.Catalog, map[string]error) {
	catalog := template.Catalog{}
	skipped := map[string]error{}

	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		skipped["<glob>"] = err
		return catalog, skipped
	}
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			skipped[path] = err
			continue
		}
		c, fileSkipped := template.Load(data)
		for name, err := range fileSkipped {
			skipped[filepath.Base(path)+":"+name] = err
		}
		for name, e := range c {
			catalog[name] = e
		}
	}
	return catalog, skipped
}

func getEnvWithDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
