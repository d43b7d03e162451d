package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/forecourt/internal/pump/domain"
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
	Repo     domain.Repository
	TankRepo tankdomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	tankRepo tankdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("pump.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		tankRepo: p.TankRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePumpRequest) (domain.Pump, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Pump{}, domain.ErrInvalidName
	}

	tankID, err := snowflake.ParseString(strings.TrimSpace(req.TankID))
	if err != nil || tankID == 0 {
		return domain.Pump{}, domain.ErrInvalidTank
	}
	tank, err := s.tankRepo.FindByID(ctx, s.db, tankID)
	if err != nil {
		return domain.Pump{}, err
	}
	if tank == nil {
		return domain.Pump{}, domain.ErrInvalidTank
	}

	if len(req.Nozzles) == 0 {
		return domain.Pump{}, domain.ErrInvalidNozzles
	}

	pump := domain.Pump{
		ID:     s.genID.Generate(),
		Name:   name,
		TankID: tankID,
		Active: true,
	}

	for i, nreq := range req.Nozzles {
		fuelType, ok := tankdomain.ParseFuelType(nreq.FuelType)
		if !ok {
			return domain.Pump{}, domain.ErrInvalidFuelType
		}
		if nreq.OpeningReading < 0 {
			return domain.Pump{}, domain.ErrInvalidReading
		}

		nozzle := domain.Nozzle{
			ID:             s.genID.Generate(),
			PumpID:         pump.ID,
			Position:       i + 1,
			FuelType:       fuelType,
			OpeningReading: nreq.OpeningReading,
			ClosingReading: nreq.OpeningReading,
			CurrentReading: nreq.OpeningReading,
		}
		if attendant := strings.TrimSpace(nreq.AttendantID); attendant != "" {
			id, err := snowflake.ParseString(attendant)
			if err != nil || id == 0 {
				return domain.Pump{}, domain.ErrInvalidNozzles
			}
			nozzle.AttendantID = &id
		}
		pump.Nozzles = append(pump.Nozzles, nozzle)
	}

	if err := s.repo.Insert(ctx, s.db, &pump); err != nil {
		return domain.Pump{}, err
	}

	s.log.Info("pump created",
		zap.String("pump_id", pump.ID.String()),
		zap.String("tank_id", pump.TankID.String()),
		zap.Int("nozzles", len(pump.Nozzles)),
	)
	return pump, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Pump, error) {
	return s.repo.ListAll(ctx, s.db)
}

func (s *Service) GetByID(ctx context.Context, req domain.GetPumpRequest) (domain.Pump, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Pump{}, domain.ErrInvalidID
	}

	pump, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Pump{}, err
	}
	if pump == nil {
		return domain.Pump{}, domain.ErrNotFound
	}
	return *pump, nil
}
