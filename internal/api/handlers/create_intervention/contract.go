package create_intervention

import (
	"context"
	"time"

	createIntervention "github.com/m04kA/SAV-InterventionService/internal/usecase/create_intervention"
)

type CreateInterventionUseCase interface {
	Execute(ctx context.Context, req *createIntervention.Request) (*createIntervention.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider источник текущего времени для признака опоздания
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
