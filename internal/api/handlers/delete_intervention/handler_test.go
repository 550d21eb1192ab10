package delete_intervention

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SAV-InterventionService/internal/service/interventions"
	"github.com/m04kA/SAV-InterventionService/pkg/logger"
)

type serviceMock struct{ mock.Mock }

func (m *serviceMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func del(svc *serviceMock, id string) *httptest.ResponseRecorder {
	h := NewHandler(svc, logger.NewWriter(io.Discard, "debug"))
	r := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/api/v1/interventions/"+id, nil),
		map[string]string{"interventionId": id})
	rec := httptest.NewRecorder()
	h.Handle(rec, r)
	return rec
}

func TestHandle(t *testing.T) {
	svc := &serviceMock{}
	svc.On("Delete", mock.Anything, int64(1)).Return(nil).Once()
	svc.On("Delete", mock.Anything, int64(2)).Return(interventions.ErrInterventionNotFound).Once()
	svc.On("Delete", mock.Anything, int64(3)).Return(interventions.ErrInternal).Once()

	rec := del(svc, "1")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, del(svc, "2").Code)
	assert.Equal(t, http.StatusInternalServerError, del(svc, "3").Code)
	assert.Equal(t, http.StatusBadRequest, del(svc, "0").Code)
	svc.AssertExpectations(t)
}
