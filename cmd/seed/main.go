package main

import (
	"flag"
	"log"

	"github.com/KopiTrack/KT-Backend/internal/auth"
	"github.com/KopiTrack/KT-Backend/internal/db"
	"github.com/KopiTrack/KT-Backend/internal/registry"
	"github.com/KopiTrack/KT-Backend/internal/seeds"
	"github.com/joho/godotenv"
)

func main() {
	path := flag.String("file", "seeds/seed.yaml", "path to the seed YAML file")
	flag.Parse()

	_ = godotenv.Load(".env.local")
	db.Connect()

	auth.Init()
	registry.Init()

	sf, err := seeds.Load(*path)
	if err != nil {
		log.Fatal(err)
	}
	if err := seeds.Run(sf); err != nil {
		log.Fatal(err)
	}

	log.Println("Seeding complete")
}
