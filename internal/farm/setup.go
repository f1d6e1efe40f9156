package farm

import (
	"log"

	"github.com/KopiTrack/KT-Backend/internal/db"
)

func Init() {
	if err := db.DB.AutoMigrate(&Farm{}); err != nil {
		log.Fatal("Failed to auto-migrate farm tables: ", err)
	}
}
