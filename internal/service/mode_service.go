package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/dto"
)

type healthChecker interface {
	HealthCheck(ctx context.Context) bool
}

// ModeService reports which generation modes are currently usable. Manual
// mode is always available; the optimizer-backed modes share one fresh
// health probe per call. Availability is never cached.
type ModeService struct {
	client  healthChecker
	enabled bool
	logger  *zap.Logger
}

// NewModeService constructs the mode service. enabled mirrors the
// deployment flag that turns the optimizer integration off entirely.
func NewModeService(client healthChecker, enabled bool, logger *zap.Logger) *ModeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModeService{client: client, enabled: enabled, logger: logger}
}

// AvailableModes returns every generation mode with its current availability.
func (s *ModeService) AvailableModes(ctx context.Context) []dto.ModeAvailability {
	optimizerUp := false
	reason := ""
	switch {
	case !s.enabled || s.client == nil:
		reason = "optimizer integration is disabled"
	default:
		optimizerUp = s.client.HealthCheck(ctx)
		if !optimizerUp {
			reason = "optimizer service is unreachable"
		}
	}

	modes := make([]dto.ModeAvailability, 0, len(dto.AllGenerationModes()))
	for _, mode := range dto.AllGenerationModes() {
		info := mode.Info()
		availability := dto.ModeAvailability{
			Mode:        mode,
			DisplayName: info.DisplayName,
			Description: info.Description,
			Available:   true,
		}
		if mode.RequiresOptimizer() && !optimizerUp {
			availability.Available = false
			availability.Reason = reason
		}
		modes = append(modes, availability)
	}
	return modes
}

// OptimizerAvailable runs a fresh health probe.
func (s *ModeService) OptimizerAvailable(ctx context.Context) bool {
	if !s.enabled || s.client == nil {
		return false
	}
	return s.client.HealthCheck(ctx)
}
