package produce

import (
	"log"

	"github.com/KopiTrack/KT-Backend/internal/db"
)

func Init() {
	if err := db.DB.AutoMigrate(&Productivity{}); err != nil {
		log.Fatal("Failed to auto-migrate produce tables: ", err)
	}
}
