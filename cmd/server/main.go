package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"nutriagenda/internal/api"
	"nutriagenda/internal/auth"
	"nutriagenda/internal/repository"
	"nutriagenda/internal/service"
	"nutriagenda/internal/utils"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	// apply schema if present
	if migration, err := os.ReadFile("db/migrations/001_init.sql"); err != nil {
		log.Printf("migration file not found, skipping: %v", err)
	} else if _, err := db.Exec(string(migration)); err != nil {
		log.Printf("migration warning: %v", err)
	} else {
		log.Println("migration applied")
	}

	slotRepo := repository.NewSlotRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	jobRepo := repository.NewJobRepository(db)

	sender := service.NewSenderService()
	availabilitySvc := service.NewAvailabilityService(slotRepo, userRepo)
	bookingSvc := service.NewBookingService(slotRepo, appointmentRepo, userRepo, sender)
	authSvc := service.NewAuthService(userRepo, secret)
	jobSvc := service.NewJobService(jobRepo, sender)

	authHandler := api.NewAuthHandler(authSvc)
	slotHandler := api.NewSlotHandler(availabilitySvc)
	bookingHandler := api.NewBookingHandler(bookingSvc)

	r := mux.NewRouter()

	// Public endpoints (rate limited)
	limiter := auth.NewRateLimiter(5, 10)
	public := r.PathPrefix("/api/auth").Subrouter()
	public.Use(limiter.Middleware)
	public.HandleFunc("/register", authHandler.Register).Methods("POST")
	public.HandleFunc("/login", authHandler.Login).Methods("POST")

	// /api/availability serves both roles depending on the method, so
	// role guards are applied per route rather than per subrouter.
	authed := auth.Middleware(secret)
	nutritionistOnly := func(h http.HandlerFunc) http.Handler {
		return authed(auth.RequireRole(utils.RoleNutritionist)(h))
	}
	clientOnly := func(h http.HandlerFunc) http.Handler {
		return authed(auth.RequireRole(utils.RoleClient)(h))
	}

	// Nutritionist endpoints
	r.Handle("/api/availability", nutritionistOnly(slotHandler.CreateSlot)).Methods("POST")
	r.Handle("/api/availability/me", nutritionistOnly(slotHandler.ListMySlots)).Methods("GET")
	r.Handle("/api/availability/{id:[0-9]+}", nutritionistOnly(slotHandler.DeleteSlot)).Methods("DELETE")

	// Client endpoints
	r.Handle("/api/availability", clientOnly(slotHandler.ListAvailable)).Methods("GET")
	r.Handle("/api/appointments", clientOnly(bookingHandler.BookAppointment)).Methods("POST")
	r.Handle("/api/appointments/me", clientOnly(bookingHandler.ListMyAppointments)).Methods("GET")

	// Background jobs
	c := cron.New()
	c.AddFunc("@every 15m", func() {
		if err := jobSvc.PurgeExpiredSlots(); err != nil {
			log.Printf("%v", err)
		}
	})
	c.AddFunc("@hourly", func() {
		if err := jobSvc.SendUpcomingReminders(); err != nil {
			log.Printf("%v", err)
		}
	})
	c.Start()
	defer c.Stop()

	handler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(handlers.LoggingHandler(os.Stdout, r))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
