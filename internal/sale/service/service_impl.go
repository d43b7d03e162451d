package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/forecourt/internal/clock"
	"github.com/smallbiznis/forecourt/internal/config"
	pumpdomain "github.com/smallbiznis/forecourt/internal/pump/domain"
	"github.com/smallbiznis/forecourt/internal/sale/domain"
	shiftdomain "github.com/smallbiznis/forecourt/internal/shift/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Writer    domain.Writer
	Reader    domain.Reader
	PumpRepo  pumpdomain.Repository
	ShiftRepo shiftdomain.Repository
	Pricing   *config.PricingConfigHolder
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	writer    domain.Writer
	reader    domain.Reader
	pumpRepo  pumpdomain.Repository
	shiftRepo shiftdomain.Repository
	pricing   *config.PricingConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("sale.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		writer:    p.Writer,
		reader:    p.Reader,
		pumpRepo:  p.PumpRepo,
		shiftRepo: p.ShiftRepo,
		pricing:   p.Pricing,
	}
}

func (s *Service) Record(ctx context.Context, req domain.RecordSaleRequest) (domain.Sale, error) {
	shiftID, err := snowflake.ParseString(strings.TrimSpace(req.ShiftID))
	if err != nil || shiftID == 0 {
		return domain.Sale{}, domain.ErrInvalidShift
	}
	shift, err := s.shiftRepo.FindByID(ctx, s.db, shiftID)
	if err != nil {
		return domain.Sale{}, err
	}
	if shift == nil {
		return domain.Sale{}, shiftdomain.ErrNotFound
	}
	if shift.Status != shiftdomain.StatusActive {
		return domain.Sale{}, shiftdomain.ErrInvalidState
	}

	pumpID, err := snowflake.ParseString(strings.TrimSpace(req.PumpID))
	if err != nil || pumpID == 0 {
		return domain.Sale{}, domain.ErrInvalidNozzle
	}
	nozzleID, err := snowflake.ParseString(strings.TrimSpace(req.NozzleID))
	if err != nil || nozzleID == 0 {
		return domain.Sale{}, domain.ErrInvalidNozzle
	}

	pump, err := s.pumpRepo.FindByID(ctx, s.db, pumpID)
	if err != nil {
		return domain.Sale{}, err
	}
	if pump == nil {
		return domain.Sale{}, pumpdomain.ErrNotFound
	}
	var nozzle *pumpdomain.Nozzle
	for i := range pump.Nozzles {
		if pump.Nozzles[i].ID == nozzleID {
			nozzle = &pump.Nozzles[i]
			break
		}
	}
	if nozzle == nil {
		return domain.Sale{}, pumpdomain.ErrNozzleNotFound
	}

	if req.Quantity <= 0 {
		return domain.Sale{}, domain.ErrInvalidQuantity
	}
	unitPrice := req.UnitPrice
	if unitPrice < 0 {
		return domain.Sale{}, domain.ErrInvalidPrice
	}
	if unitPrice == 0 {
		// An omitted price falls back to the posted per-liter rate
		// for the nozzle's fuel.
		if s.pricing == nil {
			return domain.Sale{}, domain.ErrInvalidPrice
		}
		unitPrice = s.pricing.Get().PerLiterPrice(string(nozzle.FuelType))
	}
	method, ok := domain.ParsePaymentMethod(req.PaymentMethod)
	if !ok {
		return domain.Sale{}, domain.ErrInvalidPayment
	}

	sale := domain.Sale{
		ID:            s.genID.Generate(),
		ShiftID:       shiftID,
		PumpID:        pumpID,
		NozzleID:      nozzleID,
		FuelType:      nozzle.FuelType,
		Quantity:      req.Quantity,
		UnitPrice:     unitPrice,
		TotalAmount:   req.Quantity * unitPrice,
		PaymentMethod: method,
		SoldAt:        s.clock.Now(),
	}
	if employee := strings.TrimSpace(req.EmployeeID); employee != "" {
		id, err := snowflake.ParseString(employee)
		if err != nil || id == 0 {
			return domain.Sale{}, domain.ErrInvalidEmployee
		}
		sale.EmployeeID = &id
	}

	if err := s.writer.Insert(ctx, s.db, &sale); err != nil {
		return domain.Sale{}, err
	}
	return sale, nil
}

func (s *Service) ListByShift(ctx context.Context, shiftID string) ([]domain.Sale, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(shiftID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidShift
	}
	return s.reader.ListByShift(ctx, s.db, id)
}
