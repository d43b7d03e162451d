package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/forecourt/internal/tank/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("tank.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateTankRequest) (domain.Tank, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Tank{}, domain.ErrInvalidName
	}

	fuelType, ok := domain.ParseFuelType(req.FuelType)
	if !ok {
		return domain.Tank{}, domain.ErrInvalidFuelType
	}

	if req.CapacityLiters <= 0 {
		return domain.Tank{}, domain.ErrInvalidCapacity
	}
	if req.CurrentLevel < 0 || req.MinimumLevel < 0 || req.CurrentLevel > req.CapacityLiters {
		return domain.Tank{}, domain.ErrInvalidLevel
	}

	tank := domain.Tank{
		ID:             s.genID.Generate(),
		Name:           name,
		FuelType:       fuelType,
		CapacityLiters: req.CapacityLiters,
		CurrentLevel:   req.CurrentLevel,
		MinimumLevel:   req.MinimumLevel,
		Active:         true,
	}

	if err := s.repo.Insert(ctx, s.db, &tank); err != nil {
		return domain.Tank{}, err
	}

	s.log.Info("tank created",
		zap.String("tank_id", tank.ID.String()),
		zap.String("fuel_type", string(tank.FuelType)),
	)
	return tank, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Tank, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) GetByID(ctx context.Context, req domain.GetTankRequest) (domain.Tank, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Tank{}, domain.ErrInvalidID
	}

	tank, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Tank{}, err
	}
	if tank == nil {
		return domain.Tank{}, domain.ErrNotFound
	}
	return *tank, nil
}
