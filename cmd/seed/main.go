package main

import (
	"fmt"
	"time"

	"kambafy/internal/config"
	"kambafy/internal/database"
	"kambafy/internal/domain"
	"kambafy/internal/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const demoPassword = "kambafy123"

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", false)
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogJSON)

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	if err := db.Transaction(func(tx *gorm.DB) error { return seed(tx, log) }); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().Str("password", demoPassword).Msg("seed completed")
}

func seed(tx *gorm.DB, log zerolog.Logger) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin, err := upsertUser(tx, domain.User{Email: "admin@kambafy.com", Name: "Administração", Role: domain.RoleAdmin, PasswordHash: string(hash)})
	if err != nil {
		return err
	}
	seller, err := upsertUser(tx, domain.User{Email: "vendedor@kambafy.com", Name: "Escola Kamba", Role: domain.RoleSeller, PasswordHash: string(hash)})
	if err != nil {
		return err
	}
	log.Info().Str("admin", admin.Email).Str("seller", seller.Email).Msg("users ready")

	courses := []struct {
		name, slug string
		price      int64
		modules    []string
	}{
		{"Excel do Zero ao Avançado", "excel-do-zero-ao-avancado", 15000, []string{"Introdução", "Fórmulas", "Tabelas dinâmicas"}},
		{"Marketing Digital em Angola", "marketing-digital-em-angola", 25000, []string{"Fundamentos", "Anúncios"}},
	}

	areas := make([]domain.MemberArea, 0, len(courses))
	for _, c := range courses {
		product := domain.Product{
			SellerID: seller.ID, Name: c.name, Slug: c.slug, Type: domain.ProductTypeCourse,
			Status: domain.ProductActive, Currency: "AOA", Price: decimal.NewFromInt(c.price),
		}
		if err := tx.Where(domain.Product{Slug: c.slug}).FirstOrCreate(&product).Error; err != nil {
			return fmt.Errorf("product %s: %w", c.slug, err)
		}

		area := domain.MemberArea{ProductID: product.ID, SellerID: seller.ID, Name: c.name, HeroTitle: "Bem-vindo ao " + c.name}
		if err := tx.Where(domain.MemberArea{ProductID: product.ID}).FirstOrCreate(&area).Error; err != nil {
			return fmt.Errorf("member area %s: %w", c.slug, err)
		}
		areas = append(areas, area)

		var existing int64
		if err := tx.Model(&domain.Module{}).Where("member_area_id = ?", area.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			continue
		}
		for i, title := range c.modules {
			m := domain.Module{MemberAreaID: area.ID, Title: title, OrderNumber: i + 1, Status: domain.ContentPublished}
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
			for j := 1; j <= 3; j++ {
				l := domain.Lesson{
					MemberAreaID: area.ID, ModuleID: &m.ID, Title: fmt.Sprintf("%s: aula %d", title, j),
					VideoRef: fmt.Sprintf("https://vimeo.com/%d", 900000+i*10+j), DurationSeconds: 600,
					OrderNumber: j, Status: domain.ContentPublished,
				}
				if err := tx.Create(&l).Error; err != nil {
					return err
				}
			}
		}
	}

	// One buyer with access to every course, so the hub has something to show.
	for _, a := range areas {
		grant := domain.MemberAreaStudent{MemberAreaID: a.ID, StudentEmail: "aluno@kambafy.com", StudentName: "Aluno Demo"}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&grant).Error; err != nil {
			return err
		}
	}

	var orderCount int64
	if err := tx.Model(&domain.Order{}).Where("seller_id = ?", seller.ID).Count(&orderCount).Error; err != nil {
		return err
	}
	if orderCount > 0 {
		log.Info().Int64("orders", orderCount).Msg("orders already seeded")
		return nil
	}

	now := time.Now().UTC()
	var products []domain.Product
	if err := tx.Where("seller_id = ?", seller.ID).Find(&products).Error; err != nil {
		return err
	}
	countries := []string{"Angola", "Angola", "Moçambique", "Portugal"}
	for i, p := range products {
		for j, country := range countries {
			status := domain.OrderCompleted
			if j == len(countries)-1 {
				status = domain.OrderPending
			}
			o := domain.Order{
				ProductID: p.ID, SellerID: seller.ID, Amount: p.Price, Currency: p.Currency, Status: status,
				CustomerEmail: fmt.Sprintf("cliente%d%d@example.com", i, j), CustomerCountry: country,
				PaymentMethod: "express", CreatedAt: now.Add(-time.Duration(j) * time.Hour),
			}
			if err := tx.Create(&o).Error; err != nil {
				return err
			}
		}
	}
	log.Info().Int("areas", len(areas)).Int("orders", len(products)*len(countries)).Msg("catalog ready")
	return nil
}

func upsertUser(tx *gorm.DB, u domain.User) (*domain.User, error) {
	if err := tx.Where(domain.User{Email: u.Email}).Attrs(u).FirstOrCreate(&u).Error; err != nil {
		return nil, fmt.Errorf("user %s: %w", u.Email, err)
	}
	return &u, nil
}
