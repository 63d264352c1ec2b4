package persistence

import (
	"context"
	"fmt"

	"marketplace/internal/adapters/out/persistence/productrepo"
	"marketplace/internal/adapters/out/persistence/userrepo"
	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Demo identifiers are fixed so that local clients can address them.
const (
	DemoShopID     = "7a1c3a64-0000-4000-8000-000000000001"
	DemoCustomerID = "7a1c3a64-0000-4000-8000-000000000002"
	DemoDriverID   = "7a1c3a64-0000-4000-8000-000000000003"
	DemoCategoryID = "7a1c3a64-0000-4000-8000-000000000010"
	DemoFlourID    = "7a1c3a64-0000-4000-8000-000000000011"
	DemoSugarID    = "7a1c3a64-0000-4000-8000-000000000012"
)

// SeedDemoData fills an empty database with one shop, one customer, one
// driver and two products. A database that already has users is left alone.
func SeedDemoData(ctx context.Context, db *gorm.DB, logger logrus.FieldLogger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&userrepo.UserDTO{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		logger.WithField("users", count).Info("database is not empty, demo data skipped")
		return nil
	}

	shopID, customerID, driverID := mustID(DemoShopID), mustID(DemoCustomerID), mustID(DemoDriverID)
	categoryID := mustID(DemoCategoryID)

	shopAddr, err := kernel.NewAddress("1 Market Square")
	if err != nil {
		return err
	}
	homeAddr, err := kernel.NewAddress("2 Home Road")
	if err != nil {
		return err
	}
	category, err := catalog.NewCategory(categoryID, "Bakery")
	if err != nil {
		return err
	}
	driverProfile, err := user.NewDriverProfile("van", kernel.MustWeight("10"))
	if err != nil {
		return err
	}

	shop, err := user.NewUser(shopID, "shop@example.com", "demo-shop", user.RoleShop,
		user.NewShopProfile(shopAddr, []string{"card", "cash"}, []kernel.UUID{categoryID}))
	if err != nil {
		return err
	}
	customer, err := user.NewUser(customerID, "customer@example.com", "demo-customer", user.RoleCustomer,
		user.NewCustomerProfile(homeAddr, []string{"card"}))
	if err != nil {
		return err
	}
	driver, err := user.NewUser(driverID, "driver@example.com", "demo-driver", user.RoleDriver, driverProfile)
	if err != nil {
		return err
	}
	flour, err := catalog.NewProduct(mustID(DemoFlourID), "Flour", &categoryID,
		kernel.MustMoney("2.50"), kernel.MustWeight("1"), shopID, true)
	if err != nil {
		return err
	}
	sugar, err := catalog.NewProduct(mustID(DemoSugarID), "Sugar", &categoryID,
		kernel.MustMoney("4.00"), kernel.MustWeight("0.5"), shopID, true)
	if err != nil {
		return err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := userrepo.NewGormUserRepository(tx)
		for _, u := range []*user.User{shop, customer, driver} {
			if err := users.Add(ctx, u); err != nil {
				return fmt.Errorf("add user %s: %w", u.Username(), err)
			}
		}
		products := productrepo.NewGormProductRepository(tx)
		if err := products.AddCategory(ctx, category); err != nil {
			return fmt.Errorf("add category: %w", err)
		}
		for _, p := range []*catalog.Product{flour, sugar} {
			if err := products.Add(ctx, p); err != nil {
				return fmt.Errorf("add product %s: %w", p.Name(), err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"shop_id":     DemoShopID,
		"customer_id": DemoCustomerID,
		"driver_id":   DemoDriverID,
	}).Info("demo data seeded")
	return nil
}

func mustID(s string) kernel.UUID {
	id, err := kernel.UUIDFromString(s)
	if err != nil {
		panic(err)
	}
	return id
}
