package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/plotpilot/api/internal/kvstore"
	"github.com/stwalsh4118/plotpilot/api/internal/logger"
	"github.com/stwalsh4118/plotpilot/api/internal/maintenance"
	"github.com/stwalsh4118/plotpilot/api/internal/metrics"
	"github.com/stwalsh4118/plotpilot/api/internal/models"
	"github.com/stwalsh4118/plotpilot/api/internal/services"
)

func setupMaintenanceRouter(t *testing.T) *gin.Engine {
	t.Helper()
	store := maintenance.NewStore(kvstore.NewMemory(), logger.Nop())
	store.Load(context.Background())
	return setupTestRouter(nil, nil, nil, services.NewMaintenanceService(store, metrics.New(), logger.Nop()))
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMaintenanceHandler_WorkOrders(t *testing.T) {
	router := setupMaintenanceRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/work-orders", `{"plotId":"12","title":"Reset headstone","priority":"High"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.WorkOrder
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.WorkOrderOpen, created.Status)

	w = doJSON(router, http.MethodPut, "/api/v1/work-orders/"+created.ID, `{"plotId":"12","title":"Reset headstone","status":"Resolved"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.WorkOrder
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, models.WorkOrderResolved, updated.Status)
	assert.Equal(t, models.PriorityMedium, updated.Priority)

	w = doJSON(router, http.MethodGet, "/api/v1/work-orders", "")
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		WorkOrders []models.WorkOrder `json:"workOrders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed.WorkOrders, 1)

	w = doJSON(router, http.MethodPut, "/api/v1/work-orders/missing", `{"title":"Mow"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMaintenanceHandler_WorkOrderValidation(t *testing.T) {
	router := setupMaintenanceRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"title is required", `{"plotId":"12"}`},
		{"unknown priority", `{"title":"Mow","priority":"Urgent"}`},
		{"malformed due date", `{"title":"Mow","dueDate":"next week"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/api/v1/work-orders", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestMaintenanceHandler_Issues(t *testing.T) {
	router := setupMaintenanceRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/issues", `{"lat":30.34,"lng":-95.45,"description":"Sunken grave"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var issue models.IssueReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &issue))

	w = doJSON(router, http.MethodPost, "/api/v1/issues/"+issue.ID+"/resolve", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &issue))
	assert.Equal(t, models.IssueResolved, issue.Status)

	w = doJSON(router, http.MethodPost, "/api/v1/issues/missing/resolve", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodPost, "/api/v1/issues", `{"lat":120,"lng":0,"description":"Off the map"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMaintenanceHandler_Burials(t *testing.T) {
	router := setupMaintenanceRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/burials", `{"plotId":"4","deceasedName":"John Roe","scheduledDate":"2024-07-02","startTime":"10:30"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/api/v1/burials", `{"plotId":"4","deceasedName":"John Roe","scheduledDate":"07/02/2024"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/burials", "")
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Burials []models.BurialEvent `json:"burials"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Burials, 1)
	assert.Equal(t, models.BurialScheduled, listed.Burials[0].Status)
}
