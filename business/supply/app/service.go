// Package app contains the supply query service.
package app

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	chainDomain "github.com/fd1az/chain-explorer/business/chain/domain"
	"github.com/fd1az/chain-explorer/business/supply/domain"
	"github.com/fd1az/chain-explorer/internal/apm"
	"github.com/fd1az/chain-explorer/internal/apperror"
)

const tracerName = "github.com/fd1az/chain-explorer/business/supply/app"

// TipSource reports the current chain height.
type TipSource interface {
	Tip(ctx context.Context) (chainDomain.BlockHeight, error)
}

// SupplyService computes supply figures at the current tip.
type SupplyService struct {
	schedule domain.Schedule
	tips     TipSource
	tracer   apm.Tracer
}

// NewSupplyService creates a SupplyService.
func NewSupplyService(schedule domain.Schedule, tips TipSource) *SupplyService {
	return &SupplyService{
		schedule: schedule,
		tips:     tips,
		tracer:   apm.NewTracer(tracerName),
	}
}

// Schedule returns the emission schedule in use.
func (s *SupplyService) Schedule() domain.Schedule {
	return s.schedule
}

// Current returns the supply at the node's tip. Node errors pass through
// unchanged.
func (s *SupplyService) Current(ctx context.Context) (domain.Report, error) {
	ctx, span := s.tracer.StartSpanFromContext(ctx, "supply.current")
	defer span.End()

	height, err := s.tips.Tip(ctx)
	if err != nil {
		span.Fail(err, "tip height")
		return domain.Report{}, err
	}
	span.SetAttribute(attribute.Int64("height", int64(height)))

	return s.At(height)
}

// At returns the supply at height.
func (s *SupplyService) At(height chainDomain.BlockHeight) (domain.Report, error) {
	r, err := s.schedule.Supply(uint64(height))
	if err != nil {
		return domain.Report{}, apperror.Internal(apperror.CodeSupplyCalculationFailed, "supply", err)
	}
	return r, nil
}
