// Command seed loads the starter catalog (categories, cuts and products).
// Running it twice is harmless: existing categories and cuts are reused and
// products are only created when no product with the same name exists.
package main

import (
	"context"
	"errors"
	"strings"

	"carniceria/internal/config"
	"carniceria/internal/dto"
	"carniceria/internal/infra"
	"carniceria/internal/model"
	"carniceria/internal/repository"
	"carniceria/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type seedProduct struct {
	name, category, cut, image, imageAlt string
	price, discount                      int64
	stock                                int64
}

var categories = []string{"Res", "Cerdo", "Pollo", "Embutidos"}

var cuts = []struct{ name, category string }{
	{"Bife de Chorizo", "Res"},
	{"Pechuga", "Pollo"},
	{"Costillas", "Cerdo"},
	{"Chorizo", "Embutidos"},
	{"Lomo", "Res"},
	{"Muslo", "Pollo"},
	{"Jamón", "Cerdo"},
	{"Molida", "Res"},
}

var products = []seedProduct{
	{"Bife de Chorizo", "Res", "Bife de Chorizo", "bife-chorizo.jpg", "Corte de bife de chorizo jugoso", 3000, 5, 20},
	{"Pechuga de Pollo", "Pollo", "Pechuga", "pechuga-pollo.jpg", "Pechuga de pollo fresca", 2000, 0, 15},
	{"Costillas de Cerdo", "Cerdo", "Costillas", "costillas-cerdo.jpg", "Costillas de cerdo tiernas", 2500, 5, 10},
	{"Chorizo Casero", "Embutidos", "Chorizo", "chorizo-casero.jpg", "Chorizo casero artesanal", 1500, 0, 8},
	{"Lomo de Res", "Res", "Lomo", "lomo-res.jpg", "Lomo de res premium", 4000, 0, 8},
	{"Muslos de Pollo", "Pollo", "Muslo", "muslos-pollo.jpg", "Muslos de pollo frescos", 3500, 0, 9},
	{"Jamón Serrano", "Embutidos", "Jamón", "jamon-serrano.jpg", "Jamón serrano curado", 6000, 0, 4},
	{"Carne Molida Premium", "Res", "Molida", "carne-molida.jpg", "Carne molida premium", 3000, 8, 20},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	infra.SetupLogger(cfg.Env)

	db, err := infra.NewDatabase(cfg.DatabaseURL, infra.GormLogLevel(cfg.Env))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	ctx := context.Background()

	categoryRepo := repository.NewCategoryRepository(db)
	cutRepo := repository.NewCutRepository(db)
	productRepo := repository.NewProductRepository(db)
	productSvc := service.NewProductService(
		repository.NewTransactor(db), productRepo, categoryRepo, cutRepo,
		repository.NewSaleRepository(db), repository.NewStockMovementRepository(db), nil,
	)

	categoryIDs := make(map[string]uuid.UUID)
	for _, name := range categories {
		c, err := categoryRepo.FindByName(ctx, name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c = &model.Category{Name: name}
			err = categoryRepo.Create(ctx, c)
		}
		if err != nil {
			log.Fatal().Err(err).Str("category", name).Msg("seed category")
		}
		categoryIDs[name] = c.ID
	}

	cutIDs := make(map[string]string)
	for _, ct := range cuts {
		c, err := cutRepo.FindByName(ctx, ct.name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c = &model.Cut{Name: ct.name, CategoryID: categoryIDs[ct.category]}
			err = cutRepo.Create(ctx, c)
		}
		if err != nil {
			log.Fatal().Err(err).Str("cut", ct.name).Msg("seed cut")
		}
		cutIDs[ct.name] = c.ID.String()
	}

	existing, _, err := productRepo.List(ctx, dto.ProductFilter{Page: 1, Limit: 1000})
	if err != nil {
		log.Fatal().Err(err).Msg("list products")
	}
	have := make(map[string]bool, len(existing))
	for _, p := range existing {
		have[strings.ToLower(p.Name)] = true
	}

	created := 0
	for _, sp := range products {
		if have[strings.ToLower(sp.name)] {
			continue
		}
		categoryID, cutID := categoryIDs[sp.category].String(), cutIDs[sp.cut]
		image, imageAlt := sp.image, sp.imageAlt
		discount := decimal.NewFromInt(sp.discount)
		req := dto.ProductRequest{
			Name:       sp.name,
			IsOffer:    sp.discount > 0,
			Stock:      decimal.NewFromInt(sp.stock),
			Price:      decimal.NewFromInt(sp.price),
			Discount:   &discount,
			CategoryID: &categoryID,
			CutID:      &cutID,
			Image:      &image,
			ImageAlt:   &imageAlt,
		}
		if _, err := productSvc.Create(ctx, req); err != nil {
			log.Fatal().Err(err).Str("product", sp.name).Msg("seed product")
		}
		created++
	}

	log.Info().
		Int("categories", len(categoryIDs)).
		Int("cuts", len(cutIDs)).
		Int("products_created", created).
		Msg("seed finished")
}
