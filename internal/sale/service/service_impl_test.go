package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/forecourt/internal/clock"
	"github.com/smallbiznis/forecourt/internal/config"
	"github.com/smallbiznis/forecourt/internal/migration"
	pumpdomain "github.com/smallbiznis/forecourt/internal/pump/domain"
	pumprepository "github.com/smallbiznis/forecourt/internal/pump/repository"
	"github.com/smallbiznis/forecourt/internal/sale/domain"
	"github.com/smallbiznis/forecourt/internal/sale/repository"
	shiftdomain "github.com/smallbiznis/forecourt/internal/shift/domain"
	shiftrepository "github.com/smallbiznis/forecourt/internal/shift/repository"
	tankdomain "github.com/smallbiznis/forecourt/internal/tank/domain"
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

func setupSaleService(t *testing.T, node *snowflake.Node, clk clock.Clock) (domain.Service, *gorm.DB) {
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
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     clk,
		Writer:    repository.ProvideWriter(),
		Reader:    repository.Provide(),
		PumpRepo:  pumprepository.Provide(),
		ShiftRepo: shiftrepository.Provide(),
		Pricing:   config.NewStaticPricingConfigHolder(config.DefaultPricingConfig()),
	})
	return service, db
}

func seedStation(t *testing.T, db *gorm.DB, node *snowflake.Node, status shiftdomain.Status) (shiftdomain.Shift, pumpdomain.Pump) {
	t.Helper()

	tank := tankdomain.Tank{
		ID:             node.Generate(),
		Name:           "Tank 1",
		FuelType:       tankdomain.FuelTypePetrol,
		CapacityLiters: 10000,
		CurrentLevel:   5000,
		MinimumLevel:   1000,
		Active:         true,
	}
	if err := db.Create(&tank).Error; err != nil {
		t.Fatalf("seed tank: %v", err)
	}

	pump := pumpdomain.Pump{
		ID:     node.Generate(),
		Name:   "Pump A",
		TankID: tank.ID,
		Active: true,
		Nozzles: []pumpdomain.Nozzle{
			{ID: node.Generate(), Position: 1, FuelType: tank.FuelType},
		},
	}
	if err := db.Create(&pump).Error; err != nil {
		t.Fatalf("seed pump: %v", err)
	}

	shift := shiftdomain.Shift{
		ID:        node.Generate(),
		Sequence:  1,
		ShiftDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:    status,
		StartTime: time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC),
	}
	if err := db.Create(&shift).Error; err != nil {
		t.Fatalf("seed shift: %v", err)
	}
	return shift, pump
}

func TestRecordSale(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC))
	service, db := setupSaleService(t, node, clk)
	shift, pump := seedStation(t, db, node, shiftdomain.StatusActive)

	sale, err := service.Record(context.Background(), domain.RecordSaleRequest{
		ShiftID:       shift.ID.String(),
		PumpID:        pump.ID.String(),
		NozzleID:      pump.Nozzles[0].ID.String(),
		Quantity:      40,
		UnitPrice:     106.50,
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}

	if sale.TotalAmount != 40*106.50 {
		t.Fatalf("expected total %v, got %v", 40*106.50, sale.TotalAmount)
	}
	if sale.FuelType != tankdomain.FuelTypePetrol {
		t.Fatalf("expected fuel type from nozzle, got %s", sale.FuelType)
	}
	if !sale.SoldAt.Equal(clk.Now()) {
		t.Fatalf("expected sold_at from clock, got %v", sale.SoldAt)
	}

	var count int64
	if err := db.Model(&domain.Sale{}).Where("shift_id = ?", shift.ID).Count(&count).Error; err != nil {
		t.Fatalf("count sales: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 persisted sale, got %d", count)
	}
}

func TestRecordSaleUsesPostedPriceWhenUnset(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC))
	service, db := setupSaleService(t, node, clk)
	shift, pump := seedStation(t, db, node, shiftdomain.StatusActive)

	sale, err := service.Record(context.Background(), domain.RecordSaleRequest{
		ShiftID:       shift.ID.String(),
		PumpID:        pump.ID.String(),
		NozzleID:      pump.Nozzles[0].ID.String(),
		Quantity:      40,
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}

	if sale.UnitPrice != 106.50 {
		t.Fatalf("expected posted petrol price 106.50, got %v", sale.UnitPrice)
	}
	if sale.TotalAmount != 40*106.50 {
		t.Fatalf("expected total %v, got %v", 40*106.50, sale.TotalAmount)
	}

	var stored domain.Sale
	if err := db.First(&stored, "id = ?", sale.ID).Error; err != nil {
		t.Fatalf("load sale: %v", err)
	}
	if stored.UnitPrice != 106.50 {
		t.Fatalf("expected persisted price 106.50, got %v", stored.UnitPrice)
	}
}

func TestRecordSaleRejectsClosedShift(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC))
	service, db := setupSaleService(t, node, clk)
	shift, pump := seedStation(t, db, node, shiftdomain.StatusClosed)

	_, err := service.Record(context.Background(), domain.RecordSaleRequest{
		ShiftID:       shift.ID.String(),
		PumpID:        pump.ID.String(),
		NozzleID:      pump.Nozzles[0].ID.String(),
		Quantity:      40,
		UnitPrice:     106.50,
		PaymentMethod: "cash",
	})
	if err != shiftdomain.ErrInvalidState {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestRecordSaleRejectsUnknownNozzle(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC))
	service, db := setupSaleService(t, node, clk)
	shift, pump := seedStation(t, db, node, shiftdomain.StatusActive)

	_, err := service.Record(context.Background(), domain.RecordSaleRequest{
		ShiftID:       shift.ID.String(),
		PumpID:        pump.ID.String(),
		NozzleID:      node.Generate().String(),
		Quantity:      40,
		UnitPrice:     106.50,
		PaymentMethod: "cash",
	})
	if err != pumpdomain.ErrNozzleNotFound {
		t.Fatalf("expected ErrNozzleNotFound, got %v", err)
	}
}

func TestRecordSaleValidation(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC))
	service, db := setupSaleService(t, node, clk)
	shift, pump := seedStation(t, db, node, shiftdomain.StatusActive)

	base := domain.RecordSaleRequest{
		ShiftID:       shift.ID.String(),
		PumpID:        pump.ID.String(),
		NozzleID:      pump.Nozzles[0].ID.String(),
		Quantity:      40,
		UnitPrice:     106.50,
		PaymentMethod: "cash",
	}

	invalidQuantity := base
	invalidQuantity.Quantity = 0
	if _, err := service.Record(context.Background(), invalidQuantity); err != domain.ErrInvalidQuantity {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}

	invalidPrice := base
	invalidPrice.UnitPrice = -1
	if _, err := service.Record(context.Background(), invalidPrice); err != domain.ErrInvalidPrice {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}

	invalidMethod := base
	invalidMethod.PaymentMethod = "barter"
	if _, err := service.Record(context.Background(), invalidMethod); err != domain.ErrInvalidPayment {
		t.Fatalf("expected ErrInvalidPayment, got %v", err)
	}
}
