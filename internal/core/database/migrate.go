package database

import (
	"fmt"

	"bookit/internal/domain"

	"gorm.io/gorm"
)

// Models lists every table owned by the API, parents first.
func Models() []any {
	return []any{&domain.User{}, &domain.Service{}, &domain.Booking{}, &domain.Review{}}
}

const pgNoOverlap = `
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'bookings_no_overlap') THEN
		ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
			EXCLUDE USING gist (service_id WITH =, tstzrange(start_time, end_time, '[)') WITH &&)
			WHERE (status IN ('pending', 'confirmed'));
	END IF;
END
$$;`

// Migrate creates the schema. On Postgres it also installs the exclusion
// constraint that rejects overlapping active bookings at commit time.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		return fmt.Errorf("enable btree_gist: %w", err)
	}
	if err := db.Exec(pgNoOverlap).Error; err != nil {
		return fmt.Errorf("booking overlap constraint: %w", err)
	}
	return nil
}
