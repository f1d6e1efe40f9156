package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/KopiTrack/KT-Backend/internal/auth"
	"github.com/KopiTrack/KT-Backend/internal/db"
	"github.com/KopiTrack/KT-Backend/internal/farm"
	"github.com/KopiTrack/KT-Backend/internal/middleware"
	"github.com/KopiTrack/KT-Backend/internal/produce"
	"github.com/KopiTrack/KT-Backend/internal/registry"
	"github.com/KopiTrack/KT-Backend/internal/warehouse"
	"github.com/KopiTrack/KT-Backend/internal/weather"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	auth.Init()
	registry.Init()
	farm.Init()
	produce.Init()
	warehouse.Init()

	weatherClient, err := weather.NewClient()
	if err != nil {
		log.Fatal("Failed to create weather client: ", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/users", auth.SetupRoutes())
	r.Mount("/districts", registry.SetupRoutes())
	r.Mount("/farms", farm.SetupRoutes())
	r.Mount("/productivities", produce.SetupRoutes())
	r.Mount("/warehouses", warehouse.SetupFacilityRoutes())
	r.Mount("/inventories", warehouse.SetupInventoryRoutes())
	r.Mount("/weather", weather.SetupRoutes(weatherClient))

	fmt.Println("Server listening on port :" + port + "...")

	if err := http.ListenAndServe("0.0.0.0:"+port, r); err != nil {
		log.Fatal(err)
	}
}
