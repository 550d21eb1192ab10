package get_intervention

import (
	"context"

	"github.com/m04kA/SAV-InterventionService/internal/service/interventions/models"
)

type InterventionService interface {
	GetByID(ctx context.Context, id int64) (*models.InterventionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
