package migrate

import (
	"context"

	db "github.com/atmolab/gascalc/pkg/middleware/db"
	logger "github.com/atmolab/gascalc/pkg/middleware/logger"
	model "github.com/atmolab/gascalc/pkg/model"
)

func Table(ctx context.Context) error {
	d := db.DB().DBWithContext(ctx)
	models := []any{
		&model.User{},
		&model.Gas{},
		&model.Order{},
		&model.OrderLine{},
	}
	for _, m := range models {
		if err := d.AutoMigrate(m); err != nil {
			logger.Errorf(ctx, "migrate table err: %+v", err)
			return err
		}
	}
	return Seed(ctx)
}

// Seed installs the gas catalog reference data. Idempotent: it only runs
// against an empty gas table.
func Seed(ctx context.Context) error {
	d := db.DB().DBWithContext(ctx)

	var count int64
	if err := d.Model(&model.Gas{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Infof(ctx, "gas catalog already seeded, count=%d", count)
		return nil
	}

	gases := []*model.Gas{
		{
			Name:        "Carbon dioxide",
			Formula:     "CO₂",
			Description: "Colorless, odorless gas and the main greenhouse driver of the carbon cycle; the primary product of burning organic matter.",
		},
		{
			Name:        "Oxygen",
			Formula:     "O₂",
			Description: "Vital for most living organisms, oxygen makes up about 21% of the Earth's atmosphere and is the key component of respiration.",
		},
		{
			Name:        "Argon",
			Formula:     "Ar",
			Description: "A noble gas making up about 1% of the atmosphere. Inert under normal conditions, which makes it useful in industry.",
		},
		{
			Name:        "Nitrogen",
			Formula:     "N₂",
			Description: "The most abundant atmospheric gas at roughly 78% by volume, and a building block of proteins and DNA.",
		},
		{
			Name:        "Water vapor",
			Formula:     "H₂O",
			Description: "The gaseous state of water. Its atmospheric concentration varies strongly with temperature and humidity and drives climate processes.",
		},
	}
	if err := d.Create(&gases).Error; err != nil {
		logger.Errorf(ctx, "seed gas catalog err: %+v", err)
		return err
	}
	logger.Infof(ctx, "seeded %d gases", len(gases))
	return nil
}
