package service

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/forecourt/internal/clock"
	"github.com/smallbiznis/forecourt/internal/config"
	"github.com/smallbiznis/forecourt/internal/migration"
	pumpdomain "github.com/smallbiznis/forecourt/internal/pump/domain"
	pumprepository "github.com/smallbiznis/forecourt/internal/pump/repository"
	saledomain "github.com/smallbiznis/forecourt/internal/sale/domain"
	salerepository "github.com/smallbiznis/forecourt/internal/sale/repository"
	"github.com/smallbiznis/forecourt/internal/shift/domain"
	"github.com/smallbiznis/forecourt/internal/shift/repository"
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

func setupShiftService(t *testing.T, node *snowflake.Node, clk clock.Clock) (domain.Service, *gorm.DB) {
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
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      clk,
		Cfg:        config.Config{MaxShiftsPerDay: 2},
		Repo:       repository.Provide(),
		TankRepo:   tankrepository.Provide(),
		PumpRepo:   pumprepository.Provide(),
		SaleReader: salerepository.Provide(),
	})
	return service, db
}

func seedTank(t *testing.T, db *gorm.DB, node *snowflake.Node, level float64) tankdomain.Tank {
	t.Helper()
	tank := tankdomain.Tank{
		ID:             node.Generate(),
		Name:           "Tank 1",
		FuelType:       tankdomain.FuelTypePetrol,
		CapacityLiters: 10000,
		CurrentLevel:   level,
		MinimumLevel:   1000,
		Active:         true,
	}
	if err := db.Create(&tank).Error; err != nil {
		t.Fatalf("seed tank: %v", err)
	}
	return tank
}

func seedPump(t *testing.T, db *gorm.DB, node *snowflake.Node, tankID snowflake.ID, readings ...float64) pumpdomain.Pump {
	t.Helper()
	pump := pumpdomain.Pump{
		ID:     node.Generate(),
		Name:   "Pump A",
		TankID: tankID,
		Active: true,
	}
	for i, reading := range readings {
		pump.Nozzles = append(pump.Nozzles, pumpdomain.Nozzle{
			ID:             node.Generate(),
			Position:       i + 1,
			FuelType:       tankdomain.FuelTypePetrol,
			OpeningReading: reading,
			ClosingReading: reading,
			CurrentReading: reading,
		})
	}
	if err := db.Create(&pump).Error; err != nil {
		t.Fatalf("seed pump: %v", err)
	}
	return pump
}

func seedSale(t *testing.T, db *gorm.DB, node *snowflake.Node, shift domain.Shift, pump pumpdomain.Pump, nozzle pumpdomain.Nozzle, quantity, unitPrice float64, method saledomain.PaymentMethod, at time.Time) {
	t.Helper()
	sale := saledomain.Sale{
		ID:            node.Generate(),
		ShiftID:       shift.ID,
		PumpID:        pump.ID,
		NozzleID:      nozzle.ID,
		FuelType:      nozzle.FuelType,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		TotalAmount:   quantity * unitPrice,
		PaymentMethod: method,
		SoldAt:        at,
	}
	if err := db.Create(&sale).Error; err != nil {
		t.Fatalf("seed sale: %v", err)
	}
}

func TestOpenShiftSnapshotsStation(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC))
	service, db := setupShiftService(t, node, clk)

	tank := seedTank(t, db, node, 5000)
	pump := seedPump(t, db, node, tank.ID, 1200, 3400)

	shift, err := service.Open(context.Background(), domain.OpenShiftRequest{OpeningCash: 500})
	if err != nil {
		t.Fatalf("open shift: %v", err)
	}

	if shift.Status != domain.StatusActive {
		t.Fatalf("expected active shift, got %s", shift.Status)
	}
	if shift.Sequence != 1 {
		t.Fatalf("expected sequence 1, got %d", shift.Sequence)
	}
	if len(shift.TankReadings) != 1 || shift.TankReadings[0].OpeningReading != 5000 {
		t.Fatalf("unexpected tank snapshots: %+v", shift.TankReadings)
	}
	if len(shift.PumpReadings) != 2 {
		t.Fatalf("expected 2 nozzle snapshots, got %d", len(shift.PumpReadings))
	}
	openings := map[snowflake.ID]float64{}
	for _, reading := range shift.PumpReadings {
		openings[reading.NozzleID] = reading.OpeningReading
	}
	if openings[pump.Nozzles[0].ID] != 1200 || openings[pump.Nozzles[1].ID] != 3400 {
		t.Fatalf("unexpected nozzle openings: %v", openings)
	}
}

func TestOpenShiftSecondActiveRejected(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC))
	service, db := setupShiftService(t, node, clk)
	seedTank(t, db, node, 5000)

	if _, err := service.Open(context.Background(), domain.OpenShiftRequest{OpeningCash: 500}); err != nil {
		t.Fatalf("open first shift: %v", err)
	}

	_, err := service.Open(context.Background(), domain.OpenShiftRequest{OpeningCash: 500})
	if err != domain.ErrActiveShiftExists {
		t.Fatalf("expected ErrActiveShiftExists, got %v", err)
	}
}

func TestOpenShiftDailyLimit(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC))
	service, db := setupShiftService(t, node, clk)
	seedTank(t, db, node, 5000)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		shift, err := service.Open(ctx, domain.OpenShiftRequest{OpeningCash: 500})
		if err != nil {
			t.Fatalf("open shift %d: %v", i+1, err)
		}
		clk.Advance(8 * time.Hour)
		if _, err := service.Close(ctx, domain.CloseShiftRequest{
			ShiftID:     shift.ID.String(),
			ClosingCash: 500,
		}); err != nil {
			t.Fatalf("close shift %d: %v", i+1, err)
		}
		clk.Advance(time.Minute)
	}

	_, err := service.Open(ctx, domain.OpenShiftRequest{OpeningCash: 500})
	if err != domain.ErrDailyShiftLimit {
		t.Fatalf("expected ErrDailyShiftLimit, got %v", err)
	}
}

func TestSummaryDerivesExpectedClosings(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC))
	service, db := setupShiftService(t, node, clk)

	tank := seedTank(t, db, node, 5000)
	pump := seedPump(t, db, node, tank.ID, 1000)

	ctx := context.Background()
	shift, err := service.Open(ctx, domain.OpenShiftRequest{OpeningCash: 500})
	if err != nil {
		t.Fatalf("open shift: %v", err)
	}
	seedSale(t, db, node, shift, pump, pump.Nozzles[0], 100, 10, saledomain.PaymentCash, clk.Now())

	summary, err := service.Summary(ctx, shift.ID.String())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if summary.Status != domain.StatusActive {
		t.Fatalf("expected active status, got %s", summary.Status)
	}
	if summary.TotalSales != 1000 || summary.TotalQuantity != 100 || summary.SalesCount != 1 {
		t.Fatalf("unexpected totals: %+v", summary)
	}
	if summary.CashCollected != 1000 {
		t.Fatalf("expected cash collected 1000, got %v", summary.CashCollected)
	}
	if summary.ExpectedClosingCash != 1500 {
		t.Fatalf("expected closing cash 1500, got %v", summary.ExpectedClosingCash)
	}

	if len(summary.PumpReadings) != 1 {
		t.Fatalf("expected 1 nozzle expectation, got %d", len(summary.PumpReadings))
	}
	nozzle := summary.PumpReadings[0]
	if nozzle.NozzleID != pump.Nozzles[0].ID || nozzle.OpeningReading != 1000 || nozzle.VolumeSold != 100 || nozzle.ExpectedClosing != 1100 {
		t.Fatalf("unexpected nozzle expectation: %+v", nozzle)
	}

	if len(summary.TankReadings) != 1 {
		t.Fatalf("expected 1 tank expectation, got %d", len(summary.TankReadings))
	}
	level := summary.TankReadings[0]
	if level.TankID != tank.ID || level.OpeningReading != 5000 || level.VolumeSold != 100 || level.ExpectedClosing != 4900 {
		t.Fatalf("unexpected tank expectation: %+v", level)
	}

	// A summary is a read-only view: calling it again yields the same
	// result and leaves the shift and its sales untouched.
	again, err := service.Summary(ctx, shift.ID.String())
	if err != nil {
		t.Fatalf("second summary: %v", err)
	}
	if !reflect.DeepEqual(summary, again) {
		t.Fatalf("summaries differ between calls:\n%+v\n%+v", summary, again)
	}

	active, err := service.Active(ctx)
	if err != nil {
		t.Fatalf("active shift: %v", err)
	}
	if active == nil || active.ID != shift.ID {
		t.Fatalf("expected shift still active")
	}
	var saleCount int64
	if err := db.Model(&saledomain.Sale{}).Where("shift_id = ?", shift.ID).Count(&saleCount).Error; err != nil {
		t.Fatalf("count sales: %v", err)
	}
	if saleCount != 1 {
		t.Fatalf("expected 1 sale after summaries, got %d", saleCount)
	}
}

func TestCloseShiftRecomputesTotalsFromSales(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC))
	service, db := setupShiftService(t, node, clk)

	tank := seedTank(t, db, node, 5000)
	pump := seedPump(t, db, node, tank.ID, 1000)

	ctx := context.Background()
	shift, err := service.Open(ctx, domain.OpenShiftRequest{OpeningCash: 500})
	if err != nil {
		t.Fatalf("open shift: %v", err)
	}

	soldAt := clk.Now().Add(time.Hour)
	seedSale(t, db, node, shift, pump, pump.Nozzles[0], 100, 10, saledomain.PaymentCash, soldAt)
	seedSale(t, db, node, shift, pump, pump.Nozzles[0], 50, 10, saledomain.PaymentCard, soldAt)
	seedSale(t, db, node, shift, pump, pump.Nozzles[0], 25, 10, saledomain.PaymentUPI, soldAt)

	clk.Advance(8 * time.Hour)
	result, err := service.Close(ctx, domain.CloseShiftRequest{
		ShiftID:     shift.ID.String(),
		ClosingCash: 1500, // opening 500 + cash sales 1000
	})
	if err != nil {
		t.Fatalf("close shift: %v", err)
	}

	if result.Shift.Status != domain.StatusClosed {
		t.Fatalf("expected closed shift, got %s", result.Shift.Status)
	}
	if result.TotalSales != 1750 || result.TotalQuantity != 175 || result.SalesCount != 3 {
		t.Fatalf("unexpected totals: %+v", result)
	}
	if result.Payments.Cash != 1000 || result.Payments.Card != 500 || result.Payments.Upi != 250 {
		t.Fatalf("unexpected payment breakdown: %+v", result.Payments)
	}
	if result.CashFlow.Discrepancy != 0 || len(result.Discrepancies) != 0 {
		t.Fatalf("expected clean cash flow, got %+v", result.CashFlow)
	}
	if result.Duration != 8*time.Hour {
		t.Fatalf("expected 8h duration, got %s", result.Duration)
	}
	if result.Shift.EndTime == nil || !result.Shift.EndTime.Equal(clk.Now()) {
		t.Fatalf("unexpected end time: %v", result.Shift.EndTime)
	}
}

func TestCloseShiftCashDiscrepancies(t *testing.T) {
	cases := []struct {
		name        string
		closingCash float64
		amount      float64
		reason      string
	}{
		{name: "shortage", closingCash: 1400, amount: -100, reason: "Cash shortage"},
		{name: "surplus", closingCash: 1600, amount: 100, reason: "Cash surplus"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			node := mustNode(t)
			clk := clock.NewFakeClock(time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC))
			service, db := setupShiftService(t, node, clk)

			tank := seedTank(t, db, node, 5000)
			pump := seedPump(t, db, node, tank.ID, 1000)

			ctx := context.Background()
			shift, err := service.Open(ctx, domain.OpenShiftRequest{OpeningCash: 500})
			if err != nil {
				t.Fatalf("open shift: %v", err)
			}
			seedSale(t, db, node, shift, pump, pump.Nozzles[0], 100, 10, saledomain.PaymentCash, clk.Now())

			result, err := service.Close(ctx, domain.CloseShiftRequest{
				ShiftID:     shift.ID.String(),
				ClosingCash: tc.closingCash,
			})
			if err != nil {
				t.Fatalf("close shift: %v", err)
			}

			if len(result.Discrepancies) != 1 {
				t.Fatalf("expected 1 discrepancy, got %d", len(result.Discrepancies))
			}
			d := result.Discrepancies[0]
			if d.Kind != domain.DiscrepancyCash || d.Amount != tc.amount || d.Reason != tc.reason {
				t.Fatalf("unexpected discrepancy: %+v", d)
			}

			var stored []domain.Discrepancy
			if err := db.Where("shift_id = ?", shift.ID).Find(&stored).Error; err != nil {
				t.Fatalf("load discrepancies: %v", err)
			}
			if len(stored) != 1 {
				t.Fatalf("expected persisted discrepancy, got %d", len(stored))
			}
		})
	}
}

func TestCloseShiftRejectsDoubleClose(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC))
	service, db := setupShiftService(t, node, clk)
	seedTank(t, db, node, 5000)

	ctx := context.Background()
	shift, err := service.Open(ctx, domain.OpenShiftRequest{OpeningCash: 500})
	if err != nil {
		t.Fatalf("open shift: %v", err)
	}

	req := domain.CloseShiftRequest{ShiftID: shift.ID.String(), ClosingCash: 500}
	if _, err := service.Close(ctx, req); err != nil {
		t.Fatalf("first close: %v", err)
	}

	if _, err := service.Close(ctx, req); err != domain.ErrInvalidState {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestCloseShiftPropagatesClosingReadings(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC))
	service, db := setupShiftService(t, node, clk)

	tank := seedTank(t, db, node, 1000)
	pump := seedPump(t, db, node, tank.ID, 4000)

	ctx := context.Background()
	shift, err := service.Open(ctx, domain.OpenShiftRequest{OpeningCash: 500})
	if err != nil {
		t.Fatalf("open shift: %v", err)
	}

	clk.Advance(8 * time.Hour)
	result, err := service.Close(ctx, domain.CloseShiftRequest{
		ShiftID:     shift.ID.String(),
		ClosingCash: 500,
		PumpReadings: []domain.NozzleClosing{
			{PumpID: pump.ID.String(), NozzleID: pump.Nozzles[0].ID.String(), Reading: 5000},
		},
		TankReadings: []domain.TankClosing{
			{TankID: tank.ID.String(), Reading: 800},
		},
	})
	if err != nil {
		t.Fatalf("close shift: %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %+v", result.Warnings)
	}

	var nozzle pumpdomain.Nozzle
	if err := db.First(&nozzle, "id = ?", pump.Nozzles[0].ID).Error; err != nil {
		t.Fatalf("load nozzle: %v", err)
	}
	if nozzle.CurrentReading != 5000 || nozzle.ClosingReading != 5000 {
		t.Fatalf("nozzle not propagated: %+v", nozzle)
	}

	var storedTank tankdomain.Tank
	if err := db.First(&storedTank, "id = ?", tank.ID).Error; err != nil {
		t.Fatalf("load tank: %v", err)
	}
	if storedTank.CurrentLevel != 800 {
		t.Fatalf("expected tank level 800, got %v", storedTank.CurrentLevel)
	}

	var dips []tankdomain.DipReading
	if err := db.Where("tank_id = ?", tank.ID).Find(&dips).Error; err != nil {
		t.Fatalf("load dips: %v", err)
	}
	if len(dips) != 1 || dips[0].Reading != 800 || dips[0].ShiftID == nil || *dips[0].ShiftID != shift.ID {
		t.Fatalf("unexpected dip history: %+v", dips)
	}

	// The next shift must open against the propagated values.
	clk.Advance(time.Minute)
	next, err := service.Open(ctx, domain.OpenShiftRequest{OpeningCash: 500})
	if err != nil {
		t.Fatalf("open next shift: %v", err)
	}
	if next.PumpReadings[0].OpeningReading != 5000 {
		t.Fatalf("expected nozzle opening 5000, got %v", next.PumpReadings[0].OpeningReading)
	}
	if next.TankReadings[0].OpeningReading != 800 {
		t.Fatalf("expected tank opening 800, got %v", next.TankReadings[0].OpeningReading)
	}
}

func TestCloseShiftWarnsOnUnknownNozzle(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC))
	service, db := setupShiftService(t, node, clk)

	tank := seedTank(t, db, node, 5000)
	pump := seedPump(t, db, node, tank.ID, 1000)

	ctx := context.Background()
	shift, err := service.Open(ctx, domain.OpenShiftRequest{OpeningCash: 500})
	if err != nil {
		t.Fatalf("open shift: %v", err)
	}

	bogus := node.Generate()
	result, err := service.Close(ctx, domain.CloseShiftRequest{
		ShiftID:     shift.ID.String(),
		ClosingCash: 500,
		PumpReadings: []domain.NozzleClosing{
			{PumpID: pump.ID.String(), NozzleID: bogus.String(), Reading: 9999},
		},
	})
	if err != nil {
		t.Fatalf("close shift: %v", err)
	}

	if result.Shift.Status != domain.StatusClosed {
		t.Fatalf("close must succeed despite warning, got %s", result.Shift.Status)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Kind != "nozzle" {
		t.Fatalf("expected one nozzle warning, got %+v", result.Warnings)
	}
}

func TestCloseShiftValidation(t *testing.T) {
	node := mustNode(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC))
	service, db := setupShiftService(t, node, clk)
	seedTank(t, db, node, 5000)

	ctx := context.Background()
	shift, err := service.Open(ctx, domain.OpenShiftRequest{OpeningCash: 500})
	if err != nil {
		t.Fatalf("open shift: %v", err)
	}

	if _, err := service.Close(ctx, domain.CloseShiftRequest{
		ShiftID:     shift.ID.String(),
		ClosingCash: -1,
	}); err != domain.ErrNegativeCash {
		t.Fatalf("expected ErrNegativeCash, got %v", err)
	}

	if _, err := service.Close(ctx, domain.CloseShiftRequest{
		ShiftID:      shift.ID.String(),
		ClosingCash:  500,
		SupervisorID: "not-a-snowflake",
	}); err != domain.ErrInvalidSupervisor {
		t.Fatalf("expected ErrInvalidSupervisor, got %v", err)
	}

	// Validation failures must leave the shift untouched.
	active, err := service.Active(ctx)
	if err != nil {
		t.Fatalf("active shift: %v", err)
	}
	if active == nil || active.ID != shift.ID {
		t.Fatalf("expected shift still active")
	}
}
