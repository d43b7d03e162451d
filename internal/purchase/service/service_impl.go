package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/forecourt/internal/clock"
	"github.com/smallbiznis/forecourt/internal/purchase/domain"
	tankdomain "github.com/smallbiznis/forecourt/internal/tank/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Writer   domain.Writer
	TankRepo tankdomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	writer   domain.Writer
	tankRepo tankdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("purchase.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		writer:   p.Writer,
		tankRepo: p.TankRepo,
	}
}

// Record stores the delivery and adds received fuel into the linked
// tanks' current levels. The tank level bump happens on receipt; dip
// history only advances at shift close.
func (s *Service) Record(ctx context.Context, req domain.RecordPurchaseRequest) (domain.Purchase, error) {
	if len(req.Items) == 0 {
		return domain.Purchase{}, domain.ErrNoItems
	}

	receivedAt := s.clock.Now()
	if req.ReceivedAt != nil {
		receivedAt = req.ReceivedAt.UTC()
	}

	purchase := domain.Purchase{
		ID:         s.genID.Generate(),
		InvoiceNo:  strings.TrimSpace(req.InvoiceNo),
		ReceivedAt: receivedAt,
	}
	if supplier := strings.TrimSpace(req.SupplierID); supplier != "" {
		id, err := snowflake.ParseString(supplier)
		if err != nil || id == 0 {
			return domain.Purchase{}, domain.ErrInvalidSupplier
		}
		purchase.SupplierID = &id
	}

	type levelBump struct {
		tankID snowflake.ID
		delta  float64
	}
	var bumps []levelBump

	for _, item := range req.Items {
		name := strings.TrimSpace(item.ItemName)
		if name == "" {
			return domain.Purchase{}, domain.ErrInvalidItem
		}
		if item.Quantity <= 0 {
			return domain.Purchase{}, domain.ErrInvalidQuantity
		}

		row := domain.PurchaseItem{
			ID:         s.genID.Generate(),
			PurchaseID: purchase.ID,
			ItemName:   name,
			FuelType:   strings.ToLower(strings.TrimSpace(item.FuelType)),
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		}
		if tankRef := strings.TrimSpace(item.TankID); tankRef != "" {
			tankID, err := snowflake.ParseString(tankRef)
			if err != nil || tankID == 0 {
				return domain.Purchase{}, domain.ErrInvalidTank
			}
			tank, err := s.tankRepo.FindByID(ctx, s.db, tankID)
			if err != nil {
				return domain.Purchase{}, err
			}
			if tank == nil {
				return domain.Purchase{}, domain.ErrInvalidTank
			}
			row.TankID = &tankID
			if row.FuelType == "" {
				row.FuelType = string(tank.FuelType)
			}
			bumps = append(bumps, levelBump{tankID: tankID, delta: item.Quantity})
		}
		purchase.Items = append(purchase.Items, row)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.writer.Insert(ctx, tx, &purchase); err != nil {
			return err
		}
		for _, bump := range bumps {
			if err := s.tankRepo.AddToLevel(ctx, tx, bump.tankID, bump.delta); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Purchase{}, err
	}

	s.log.Info("purchase recorded",
		zap.String("purchase_id", purchase.ID.String()),
		zap.Int("items", len(purchase.Items)),
	)
	return purchase, nil
}
