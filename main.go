package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "broride/internal/config"
	"broride/internal/events"
	router "broride/internal/http"
	"broride/internal/http/handlers"
	"broride/internal/repositories"
	"broride/internal/seed"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	var routeStore repositories.RouteStore
	var bookingStore repositories.BookingStore

	switch env.StoreDriver {
	case "mysql":
		db := intconfig.ConnectDB(env.DBDSN)
		defer intconfig.CloseDB()
		if err := repositories.EnsureSchema(db); err != nil {
			log.Fatalf("schema setup failed: %v", err)
		}
		routeStore = repositories.RouteRepository{DB: db}
		bookingStore = repositories.BookingRepository{DB: db}
	default:
		mem := repositories.NewMemoryStore()
		routeStore = mem
		bookingStore = mem
		if env.SeedDemo {
			seed.DemoRoutes(mem)
		}
	}

	var publisher events.Publisher = events.LogPublisher{}
	if env.KafkaBrokers != "" {
		kp := events.NewKafkaPublisher(env.KafkaBrokers, env.KafkaTopic)
		defer kp.Close()
		publisher = kp
	}

	r := router.NewRouter(env, handlers.Deps{
		Routes:   routeStore,
		Bookings: bookingStore,
		Events:   publisher,
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("BroRide ledger listening on http://localhost%s (store=%s)", env.AppAddr, env.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly")
}
