package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/forecourt/internal/clock"
	"github.com/smallbiznis/forecourt/internal/migration"
	"github.com/smallbiznis/forecourt/internal/purchase/domain"
	"github.com/smallbiznis/forecourt/internal/purchase/repository"
	tankdomain "github.com/smallbiznis/forecourt/internal/tank/domain"
	tankrepository "github.com/smallbiznis/forecourt/internal/tank/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return node
}

func setupPurchaseService(t *testing.T, node *snowflake.Node, clk clock.Clock) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	if err := migration.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	service := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clk,
		Writer:   repository.ProvideWriter(),
		TankRepo: tankrepository.Provide(),
	})
	return service, db
}

func TestRecordPurchaseBumpsTankLevel(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	service, db := setupPurchaseService(t, node, clk)

	tank := tankdomain.Tank{
		ID:             node.Generate(),
		Name:           "Tank 1",
		FuelType:       tankdomain.FuelTypePetrol,
		CapacityLiters: 10000,
		CurrentLevel:   4000,
		MinimumLevel:   1000,
		Active:         true,
	}
	if err := db.Create(&tank).Error; err != nil {
		t.Fatalf("seed tank: %v", err)
	}

	purchase, err := service.Record(context.Background(), domain.RecordPurchaseRequest{
		InvoiceNo: "INV-100",
		Items: []domain.RecordPurchaseItem{
			{ItemName: "Petrol delivery", TankID: tank.ID.String(), Quantity: 1500, UnitPrice: 92},
		},
	})
	if err != nil {
		t.Fatalf("record purchase: %v", err)
	}

	if len(purchase.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(purchase.Items))
	}
	// Fuel type must be inherited from the linked tank when absent.
	if purchase.Items[0].FuelType != "petrol" {
		t.Fatalf("expected inherited fuel type, got %q", purchase.Items[0].FuelType)
	}
	if !purchase.ReceivedAt.Equal(clk.Now()) {
		t.Fatalf("expected received_at from clock, got %v", purchase.ReceivedAt)
	}

	var stored tankdomain.Tank
	if err := db.First(&stored, "id = ?", tank.ID).Error; err != nil {
		t.Fatalf("load tank: %v", err)
	}
	if stored.CurrentLevel != 5500 {
		t.Fatalf("expected level 5500, got %v", stored.CurrentLevel)
	}
}

func TestRecordPurchaseRejectsUnknownTank(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	service, db := setupPurchaseService(t, node, clk)

	_, err := service.Record(context.Background(), domain.RecordPurchaseRequest{
		Items: []domain.RecordPurchaseItem{
			{ItemName: "Petrol delivery", TankID: node.Generate().String(), Quantity: 1500, UnitPrice: 92},
		},
	})
	if err != domain.ErrInvalidTank {
		t.Fatalf("expected ErrInvalidTank, got %v", err)
	}

	var count int64
	if err := db.Model(&domain.Purchase{}).Count(&count).Error; err != nil {
		t.Fatalf("count purchases: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no persisted purchase, got %d", count)
	}
}

func TestRecordPurchaseValidation(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	service, _ := setupPurchaseService(t, node, clk)

	if _, err := service.Record(context.Background(), domain.RecordPurchaseRequest{}); err != domain.ErrNoItems {
		t.Fatalf("expected ErrNoItems, got %v", err)
	}

	if _, err := service.Record(context.Background(), domain.RecordPurchaseRequest{
		Items: []domain.RecordPurchaseItem{{ItemName: "", Quantity: 10}},
	}); err != domain.ErrInvalidItem {
		t.Fatalf("expected ErrInvalidItem, got %v", err)
	}

	if _, err := service.Record(context.Background(), domain.RecordPurchaseRequest{
		Items: []domain.RecordPurchaseItem{{ItemName: "Petrol", Quantity: 0}},
	}); err != domain.ErrInvalidQuantity {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}
