package registry

import (
	"log"

	"github.com/KopiTrack/KT-Backend/internal/db"
)

func Init() {
	if err := db.DB.AutoMigrate(&District{}); err != nil {
		log.Fatal("Failed to auto-migrate registry tables: ", err)
	}
}
