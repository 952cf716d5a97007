package mongo

import (
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
)

// Документы хранят UUID строкой в _id и поля в snake_case.

type userDocument struct {
	ID           string     `bson:"_id"`
	Name         string     `bson:"name"`
	Email        string     `bson:"email"`
	PasswordHash string     `bson:"password_hash"`
	Role         string     `bson:"role"`
	CreatedAt    time.Time  `bson:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at"`
	LastLoginAt  *time.Time `bson:"last_login_at,omitempty"`
}

func fromUser(u *domain.User) *userDocument {
	return &userDocument{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		LastLoginAt:  u.LastLoginAt,
	}
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:           parseID(d.ID),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         domain.UserRole(d.Role),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		LastLoginAt:  d.LastLoginAt,
	}
}

type vehicleDocument struct {
	ID                  string    `bson:"_id"`
	Model               string    `bson:"model"`
	Plate               string    `bson:"plate"`
	Type                string    `bson:"type"`
	Capacity            float64   `bson:"capacity"`
	Odometer            float64   `bson:"odometer"`
	AcquisitionCost     float64   `bson:"acquisition_cost"`
	Status              string    `bson:"status"`
	LastServiceOdometer float64   `bson:"last_service_odometer"`
	CreatedAt           time.Time `bson:"created_at"`
	UpdatedAt           time.Time `bson:"updated_at"`
}

func fromVehicle(v *domain.Vehicle) *vehicleDocument {
	return &vehicleDocument{
		ID:                  v.ID.String(),
		Model:               v.Model,
		Plate:               v.Plate,
		Type:                v.Type,
		Capacity:            v.Capacity,
		Odometer:            v.Odometer,
		AcquisitionCost:     v.AcquisitionCost,
		Status:              string(v.Status),
		LastServiceOdometer: v.LastServiceOdometer,
		CreatedAt:           v.CreatedAt,
		UpdatedAt:           v.UpdatedAt,
	}
}

func (d *vehicleDocument) toDomain() *domain.Vehicle {
	return &domain.Vehicle{
		ID:                  parseID(d.ID),
		Model:               d.Model,
		Plate:               d.Plate,
		Type:                d.Type,
		Capacity:            d.Capacity,
		Odometer:            d.Odometer,
		AcquisitionCost:     d.AcquisitionCost,
		Status:              domain.VehicleStatus(d.Status),
		LastServiceOdometer: d.LastServiceOdometer,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}

type driverDocument struct {
	ID             string    `bson:"_id"`
	Name           string    `bson:"name"`
	License        string    `bson:"license"`
	LicenseExpiry  time.Time `bson:"license_expiry"`
	Type           string    `bson:"type"`
	CompletionRate float64   `bson:"completion_rate"`
	SafetyScore    float64   `bson:"safety_score"`
	Complaints     int       `bson:"complaints"`
	Status         string    `bson:"status"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func fromDriver(d *domain.Driver) *driverDocument {
	return &driverDocument{
		ID:             d.ID.String(),
		Name:           d.Name,
		License:        d.License,
		LicenseExpiry:  d.LicenseExpiry,
		Type:           d.Type,
		CompletionRate: d.CompletionRate,
		SafetyScore:    d.SafetyScore,
		Complaints:     d.Complaints,
		Status:         string(d.Status),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func (d *driverDocument) toDomain() *domain.Driver {
	return &domain.Driver{
		ID:             parseID(d.ID),
		Name:           d.Name,
		License:        d.License,
		LicenseExpiry:  d.LicenseExpiry,
		Type:           d.Type,
		CompletionRate: d.CompletionRate,
		SafetyScore:    d.SafetyScore,
		Complaints:     d.Complaints,
		Status:         domain.DriverStatus(d.Status),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type tripDocument struct {
	ID            string     `bson:"_id"`
	VehicleID     string     `bson:"vehicle_id"`
	DriverID      string     `bson:"driver_id"`
	Origin        string     `bson:"origin"`
	Destination   string     `bson:"destination"`
	CargoWeight   float64    `bson:"cargo_weight"`
	FuelCost      float64    `bson:"fuel_cost"`
	Status        string     `bson:"status"`
	FinalOdometer *float64   `bson:"final_odometer,omitempty"`
	CreatedAt     time.Time  `bson:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at"`
	DispatchedAt  *time.Time `bson:"dispatched_at,omitempty"`
	CompletedAt   *time.Time `bson:"completed_at,omitempty"`
	CancelledAt   *time.Time `bson:"cancelled_at,omitempty"`
}

func fromTrip(t *domain.Trip) *tripDocument {
	return &tripDocument{
		ID:            t.ID.String(),
		VehicleID:     t.VehicleID.String(),
		DriverID:      t.DriverID.String(),
		Origin:        t.Origin,
		Destination:   t.Destination,
		CargoWeight:   t.CargoWeight,
		FuelCost:      t.FuelCost,
		Status:        string(t.Status),
		FinalOdometer: t.FinalOdometer,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		DispatchedAt:  t.DispatchedAt,
		CompletedAt:   t.CompletedAt,
		CancelledAt:   t.CancelledAt,
	}
}

func (d *tripDocument) toDomain() *domain.Trip {
	return &domain.Trip{
		ID:            parseID(d.ID),
		VehicleID:     parseID(d.VehicleID),
		DriverID:      parseID(d.DriverID),
		Origin:        d.Origin,
		Destination:   d.Destination,
		CargoWeight:   d.CargoWeight,
		FuelCost:      d.FuelCost,
		Status:        domain.TripStatus(d.Status),
		FinalOdometer: d.FinalOdometer,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		DispatchedAt:  d.DispatchedAt,
		CompletedAt:   d.CompletedAt,
		CancelledAt:   d.CancelledAt,
	}
}

type maintenanceDocument struct {
	ID         string     `bson:"_id"`
	VehicleID  string     `bson:"vehicle_id"`
	Issue      string     `bson:"issue"`
	Cost       float64    `bson:"cost"`
	Status     string     `bson:"status"`
	CreatedAt  time.Time  `bson:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at"`
	ResolvedAt *time.Time `bson:"resolved_at,omitempty"`
}

func fromMaintenance(m *domain.MaintenanceLog) *maintenanceDocument {
	return &maintenanceDocument{
		ID:         m.ID.String(),
		VehicleID:  m.VehicleID.String(),
		Issue:      m.Issue,
		Cost:       m.Cost,
		Status:     string(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		ResolvedAt: m.ResolvedAt,
	}
}

func (d *maintenanceDocument) toDomain() *domain.MaintenanceLog {
	return &domain.MaintenanceLog{
		ID:         parseID(d.ID),
		VehicleID:  parseID(d.VehicleID),
		Issue:      d.Issue,
		Cost:       d.Cost,
		Status:     domain.MaintenanceStatus(d.Status),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
		ResolvedAt: d.ResolvedAt,
	}
}

type expenseDocument struct {
	ID          string    `bson:"_id"`
	TripID      string    `bson:"trip_id"`
	DriverName  string    `bson:"driver_name"`
	FuelExpense float64   `bson:"fuel_expense"`
	MiscExpense float64   `bson:"misc_expense"`
	Distance    float64   `bson:"distance"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"created_at"`
}

func fromExpense(e *domain.Expense) *expenseDocument {
	return &expenseDocument{
		ID:          e.ID.String(),
		TripID:      e.TripID.String(),
		DriverName:  e.DriverName,
		FuelExpense: e.FuelExpense,
		MiscExpense: e.MiscExpense,
		Distance:    e.Distance,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
	}
}

func (d *expenseDocument) toDomain() *domain.Expense {
	return &domain.Expense{
		ID:          parseID(d.ID),
		TripID:      parseID(d.TripID),
		DriverName:  d.DriverName,
		FuelExpense: d.FuelExpense,
		MiscExpense: d.MiscExpense,
		Distance:    d.Distance,
		Status:      domain.ExpenseStatus(d.Status),
		CreatedAt:   d.CreatedAt,
	}
}

type revokedDocument struct {
	JTI       string    `bson:"_id"`
	ExpiresAt time.Time `bson:"expires_at"`
}
