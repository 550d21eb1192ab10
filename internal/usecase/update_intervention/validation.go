package update_intervention

import (
	"fmt"
	"strings"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TechnicianID != nil && *req.TechnicianID <= 0 {
		return fmt.Errorf("%w: technicianId must be positive", ErrInvalidInput)
	}

	if req.TechnicianName != nil && strings.TrimSpace(*req.TechnicianName) == "" {
		return fmt.Errorf("%w: technicianName must not be empty", ErrInvalidInput)
	}

	if req.PartsCost != nil && req.PartsCost.IsNegative() {
		return fmt.Errorf("%w: partsCost must not be negative", ErrInvalidInput)
	}

	if req.LaborCost != nil && req.LaborCost.IsNegative() {
		return fmt.Errorf("%w: laborCost must not be negative", ErrInvalidInput)
	}

	if req.Status != nil && !domain.IsValidInterventionStatus(domain.InterventionStatus(*req.Status)) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
	}

	return nil
}

// validateDates момент завершения не раньше назначенного времени
func validateDates(i *domain.Intervention) error {
	if i.CompletedAt != nil && i.CompletedAt.Before(i.ScheduledAt) {
		return fmt.Errorf("%w: completedAt must not be before scheduledAt", ErrInvalidInput)
	}
	return nil
}
