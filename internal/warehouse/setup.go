package warehouse

import (
	"log"

	"github.com/KopiTrack/KT-Backend/internal/db"
)

func Init() {
	if err := db.DB.AutoMigrate(&Warehouse{}, &InventoryEntry{}, &StockRemoval{}); err != nil {
		log.Fatal("Failed to auto-migrate warehouse tables: ", err)
	}
}
