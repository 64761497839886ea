package main

import (
	"context"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"craftmarket/internal/database"
	"craftmarket/internal/domain"
	"craftmarket/internal/repository"
)

// Seeds a development database with demo accounts and listings.
// Usage: DATABASE_URL=craftmarket.db go run ./cmd/seed
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "craftmarket.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM messages")
	db.Exec("DELETE FROM reviews")
	db.Exec("DELETE FROM orders")
	db.Exec("DELETE FROM services")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	services := repository.NewServiceRepository(db)

	log.Println("Creating users...")

	master := &domain.User{
		Email:           "master@craftmarket.ru",
		PasswordHash:    hash("master123"),
		Role:            domain.RoleMaster,
		Name:            "Елена Вязникова",
		Bio:             "Вяжу на заказ более 10 лет. Свитера, шапки, пледы.",
		Specializations: []string{"knitting", "crochet"},
	}
	if err := users.Create(ctx, master); err != nil {
		log.Fatal(err)
	}

	customer := &domain.User{
		Email:        "customer@craftmarket.ru",
		PasswordHash: hash("customer123"),
		Role:         domain.RoleCustomer,
		Name:         "Иван Петров",
	}
	if err := users.Create(ctx, customer); err != nil {
		log.Fatal(err)
	}

	log.Println("Creating services...")

	days30 := 30
	days14 := 14
	listings := []*domain.Service{
		{
			MasterID:     master.ID,
			Title:        "Свитер ручной вязки на заказ",
			Description:  "Теплый свитер из мериносовой шерсти по вашим меркам. Любой цвет и узор.",
			Category:     domain.CategoryKnitting,
			Price:        8500,
			Currency:     "RUB",
			DurationDays: &days30,
			IsActive:     true,
		},
		{
			MasterID:     master.ID,
			Title:        "Шапка и шарф комплектом",
			Description:  "Комплект из шапки и шарфа крупной вязки. Пряжа на выбор, примерка по фото.",
			Category:     domain.CategoryKnitting,
			Price:        3200,
			Currency:     "RUB",
			DurationDays: &days14,
			IsActive:     true,
		},
		{
			MasterID:    master.ID,
			Title:       "Игрушка амигуруми",
			Description: "Вязаная игрушка крючком по вашему эскизу. Безопасные материалы, подходит детям.",
			Category:    domain.CategoryCrochet,
			Price:       1800,
			Currency:    "RUB",
			IsActive:    true,
		},
	}

	for _, svc := range listings {
		if err := services.Create(ctx, svc); err != nil {
			log.Fatal(err)
		}
	}

	log.Println("Done.")
	log.Println("  master:   master@craftmarket.ru / master123")
	log.Println("  customer: customer@craftmarket.ru / customer123")
}

func hash(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	return string(h)
}
