package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/frontandrew/fleetflow/internal/usecase/dispatch"
	"github.com/frontandrew/fleetflow/internal/usecase/fleet"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testVehicle() *domain.Vehicle {
	return &domain.Vehicle{
		ID:       uuid.New(),
		Model:    "Volvo FH16",
		Plate:    "TRK-001",
		Type:     "Truck",
		Capacity: 5000,
		Odometer: 12000,
		Status:   domain.VehicleAvailable,
	}
}

// TestVehicleHandler_CreateVehicle тестирует регистрацию машины
func TestVehicleHandler_CreateVehicle(t *testing.T) {
	vehicle := testVehicle()

	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*MockFleetService)
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name: "успешное создание",
			requestBody: fleet.CreateVehicleRequest{
				Model:    "Volvo FH16",
				Plate:    "trk-001",
				Type:     "Truck",
				Capacity: 5000,
				Odometer: 12000,
			},
			mockSetup: func(m *MockFleetService) {
				m.On("CreateVehicle", mock.Anything, mock.AnythingOfType("*fleet.CreateVehicleRequest")).
					Return(vehicle, nil)
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertSuccess(t, resp)
				data := resp["data"].(map[string]interface{})
				assert.Equal(t, vehicle.ID.String(), data["id"])
				assert.Equal(t, "Available", data["status"])
			},
		},
		{
			name:           "нулевая грузоподъемность",
			requestBody:    map[string]interface{}{"model": "Van", "plate": "VAN-1", "capacity": 0},
			mockSetup:      func(m *MockFleetService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				details := resp["details"].([]interface{})
				assert.Equal(t, "capacity", details[0].(map[string]interface{})["field"])
			},
		},
		{
			name:           "неизвестное поле",
			requestBody:    map[string]interface{}{"model": "Van", "plate": "VAN-1", "capacity": 10, "status": "On Trip"},
			mockSetup:      func(m *MockFleetService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
			},
		},
		{
			name:        "номер уже занят",
			requestBody: fleet.CreateVehicleRequest{Model: "Van", Plate: "TRK-001", Capacity: 800},
			mockSetup: func(m *MockFleetService) {
				m.On("CreateVehicle", mock.Anything, mock.AnythingOfType("*fleet.CreateVehicleRequest")).
					Return(nil, domain.ErrVehicleAlreadyExists)
			},
			expectedStatus: http.StatusConflict,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				assert.Contains(t, resp["error"].(string), "already exists")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockFleetService)
			tt.mockSetup(mockService)

			handler := NewVehicleHandler(mockService, logger.NewNoop())
			req := newJSONRequest(t, http.MethodPost, "/api/vehicles", tt.requestBody)
			rr := httptest.NewRecorder()

			handler.CreateVehicle(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			tt.checkResponse(t, decodeResponse(t, rr))
			mockService.AssertExpectations(t)
		})
	}
}

// TestVehicleHandler_ListVehicles тестирует фильтр по статусу
func TestVehicleHandler_ListVehicles(t *testing.T) {
	mockService := new(MockFleetService)
	mockService.On("ListVehicles", mock.Anything, repository.VehicleFilter{Status: domain.VehicleIdle}).
		Return([]*domain.Vehicle{}, nil)

	handler := NewVehicleHandler(mockService, logger.NewNoop())
	rr := httptest.NewRecorder()

	handler.ListVehicles(rr, newJSONRequest(t, http.MethodGet, "/api/vehicles?status=Idle", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decodeResponse(t, rr)["data"])
	mockService.AssertExpectations(t)
}

// TestVehicleHandler_Suggest тестирует подбор машины под вес
func TestVehicleHandler_Suggest(t *testing.T) {
	vehicle := testVehicle()

	tests := []struct {
		name           string
		target         string
		mockSetup      func(*MockFleetService)
		expectedStatus int
	}{
		{
			name:   "ранжированный список",
			target: "/api/vehicles/suggest?weight=4000",
			mockSetup: func(m *MockFleetService) {
				m.On("SuggestVehicles", mock.Anything, 4000.0).Return([]dispatch.Suggestion{{
					Vehicle:     vehicle,
					Score:       87.5,
					CapacityFit: 80,
					Label:       "Best fit",
				}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "вес не указан",
			target:         "/api/vehicles/suggest",
			mockSetup:      func(m *MockFleetService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "вес не число",
			target:         "/api/vehicles/suggest?weight=heavy",
			mockSetup:      func(m *MockFleetService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockFleetService)
			tt.mockSetup(mockService)

			handler := NewVehicleHandler(mockService, logger.NewNoop())
			rr := httptest.NewRecorder()

			handler.Suggest(rr, newJSONRequest(t, http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			mockService.AssertExpectations(t)
		})
	}
}

// TestVehicleHandler_ByID тестирует операции над конкретной машиной
func TestVehicleHandler_ByID(t *testing.T) {
	vehicle := testVehicle()

	t.Run("не найдена", func(t *testing.T) {
		mockService := new(MockFleetService)
		mockService.On("GetVehicle", mock.Anything, vehicle.ID).Return(nil, domain.ErrVehicleNotFound)

		handler := NewVehicleHandler(mockService, logger.NewNoop())
		req := withURLParam(newJSONRequest(t, http.MethodGet, "/api/vehicles/"+vehicle.ID.String(), nil), "id", vehicle.ID.String())
		rr := httptest.NewRecorder()

		handler.GetVehicle(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("некорректный ID", func(t *testing.T) {
		handler := NewVehicleHandler(new(MockFleetService), logger.NewNoop())
		req := withURLParam(newJSONRequest(t, http.MethodGet, "/api/vehicles/42", nil), "id", "42")
		rr := httptest.NewRecorder()

		handler.GetVehicle(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("удаление машины в рейсе", func(t *testing.T) {
		mockService := new(MockFleetService)
		mockService.On("DeleteVehicle", mock.Anything, vehicle.ID).Return(domain.ErrVehicleOnTrip)

		handler := NewVehicleHandler(mockService, logger.NewNoop())
		req := withURLParam(newJSONRequest(t, http.MethodDelete, "/api/vehicles/"+vehicle.ID.String(), nil), "id", vehicle.ID.String())
		rr := httptest.NewRecorder()

		handler.DeleteVehicle(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("ручной перевод в Idle", func(t *testing.T) {
		idle := *vehicle
		idle.Status = domain.VehicleIdle

		mockService := new(MockFleetService)
		mockService.On("SetVehicleStatus", mock.Anything, vehicle.ID, domain.VehicleIdle).Return(&idle, nil)

		handler := NewVehicleHandler(mockService, logger.NewNoop())
		req := withURLParam(newJSONRequest(t, http.MethodPatch, "/api/vehicles/"+vehicle.ID.String()+"/status",
			map[string]string{"status": "Idle"}), "id", vehicle.ID.String())
		rr := httptest.NewRecorder()

		handler.SetStatus(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		data := decodeResponse(t, rr)["data"].(map[string]interface{})
		assert.Equal(t, "Idle", data["status"])
		mockService.AssertExpectations(t)
	})

	t.Run("одометр нельзя уменьшить", func(t *testing.T) {
		mockService := new(MockFleetService)
		mockService.On("UpdateVehicle", mock.Anything, vehicle.ID, mock.AnythingOfType("*fleet.UpdateVehicleRequest")).
			Return(nil, domain.ErrOdometerDecrease)

		handler := NewVehicleHandler(mockService, logger.NewNoop())
		req := withURLParam(newJSONRequest(t, http.MethodPut, "/api/vehicles/"+vehicle.ID.String(),
			map[string]float64{"odometer": 100}), "id", vehicle.ID.String())
		rr := httptest.NewRecorder()

		handler.UpdateVehicle(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})
}

// TestDriverHandler тестирует основные ответы по водителям
func TestDriverHandler(t *testing.T) {
	driverID := uuid.New()

	t.Run("смена статуса во время рейса", func(t *testing.T) {
		mockService := new(MockFleetService)
		mockService.On("SetDriverStatus", mock.Anything, driverID, domain.DriverOffDuty).
			Return(nil, domain.ErrDriverOnTrip)

		handler := NewDriverHandler(mockService, logger.NewNoop())
		req := withURLParam(newJSONRequest(t, http.MethodPatch, "/api/drivers/"+driverID.String()+"/status",
			map[string]string{"status": string(domain.DriverOffDuty)}), "id", driverID.String())
		rr := httptest.NewRecorder()

		handler.SetStatus(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("без срока действия прав", func(t *testing.T) {
		handler := NewDriverHandler(new(MockFleetService), logger.NewNoop())
		rr := httptest.NewRecorder()

		handler.CreateDriver(rr, newJSONRequest(t, http.MethodPost, "/api/drivers",
			map[string]interface{}{"name": "Alex", "license": "DL-1"}))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		details := decodeResponse(t, rr)["details"].([]interface{})
		assert.Equal(t, "licenseExpiry", details[0].(map[string]interface{})["field"])
	})

	t.Run("список", func(t *testing.T) {
		mockService := new(MockFleetService)
		mockService.On("ListDrivers", mock.Anything).Return([]*domain.Driver{{ID: driverID, Name: "Alex"}}, nil)

		handler := NewDriverHandler(mockService, logger.NewNoop())
		rr := httptest.NewRecorder()

		handler.ListDrivers(rr, newJSONRequest(t, http.MethodGet, "/api/drivers", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Len(t, decodeResponse(t, rr)["data"], 1)
		mockService.AssertExpectations(t)
	})
}
