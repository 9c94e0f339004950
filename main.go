package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"go-hotspot/cronjobs"
	"go-hotspot/db"
	"go-hotspot/engine"
	"go-hotspot/routes"
)

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Println("APP_PORT: ", port)

	// Init firestore
	firestoreClient, err := db.InitFirestore()
	if err != nil {
		log.Fatalf("Failed to initialize Firestore: %v", err)
	}
	defer db.CloseFirestore() // Firestore client is closed on exit

	store := db.NewStore(firestoreClient)

	// The store backs all three collaborator roles: record source,
	// result sink and run snapshot store.
	eng := engine.New(store, store, store)

	// Initialize cron jobs
	cronjobs.InitCronJobs(eng)

	r := routes.SetupRouter(eng, store)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
