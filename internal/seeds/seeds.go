package seeds

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/KopiTrack/KT-Backend/internal/auth"
	"github.com/KopiTrack/KT-Backend/internal/db"
	"github.com/KopiTrack/KT-Backend/internal/registry"
	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// SeedFile is the YAML shape consumed by cmd/seed.
type SeedFile struct {
	Districts []struct {
		Code string `yaml:"code"`
		Name string `yaml:"name"`
	} `yaml:"districts"`
	Admin *struct {
		Name     string `yaml:"name"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"admin"`
}

// Load reads and parses a seed file.
func Load(path string) (*SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var sf SeedFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &sf, nil
}

// Run imports districts and the initial admin. Idempotent: existing district
// codes and an existing admin email are left alone.
func Run(sf *SeedFile) error {
	if len(sf.Districts) > 0 {
		codes := make([]string, 0, len(sf.Districts))
		for _, d := range sf.Districts {
			codes = append(codes, strings.ToUpper(strings.TrimSpace(d.Code)))
		}

		// Batch existence check; seeding targets Postgres.
		rows, err := db.DB.Raw(`
			SELECT district_code FROM districts WHERE district_code = ANY(?)
		`, pq.Array(codes)).Rows()
		if err != nil {
			return fmt.Errorf("existing districts query: %w", err)
		}
		existing := make(map[string]bool)
		for rows.Next() {
			var code string
			if err := rows.Scan(&code); err != nil {
				rows.Close()
				return fmt.Errorf("scan district code: %w", err)
			}
			existing[code] = true
		}
		rows.Close()

		created := 0
		for i, d := range sf.Districts {
			code := codes[i]
			if existing[code] {
				continue
			}
			district := registry.District{
				UUID:         uuid.NewString(),
				DistrictCode: code,
				DistrictName: strings.TrimSpace(d.Name),
			}
			if err := db.DB.Create(&district).Error; err != nil {
				return fmt.Errorf("create district %s: %w", code, err)
			}
			created++
		}
		log.Printf("Seeded %d districts (%d already present)", created, len(sf.Districts)-created)
	}

	if sf.Admin != nil {
		email := strings.ToLower(strings.TrimSpace(sf.Admin.Email))
		var existing auth.User
		if err := db.DB.First(&existing, "email = ?", email).Error; err == nil {
			log.Printf("Admin %s already present", email)
			return nil
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(sf.Admin.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		admin := auth.User{
			UUID:         uuid.NewString(),
			Name:         sf.Admin.Name,
			Email:        email,
			PasswordHash: string(hashed),
			IsAdmin:      true,
		}
		if err := db.DB.Create(&admin).Error; err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		log.Printf("Seeded admin %s", email)
	}

	return nil
}
