package domain

import "errors"

// Kind классифицирует доменную ошибку для внешних слоев
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unexpected"
	}
}

// Error - доменная ошибка с классом
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// FieldError описывает ошибку конкретного поля запроса
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ValidationError - ошибка валидации с деталями по полям
type ValidationError struct {
	Message string
	Details []FieldError
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return "validation failed"
	}
	return e.Message
}

// NewValidationError создает ошибку валидации для одного поля
func NewValidationError(field, code, message string) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: []FieldError{{Field: field, Message: message, Code: code}},
	}
}

// KindOf возвращает класс ошибки, разворачивая цепочку wrap
func KindOf(err error) Kind {
	if err == nil {
		return KindUnexpected
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return KindValidation
	}

	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}

	return KindUnexpected
}

// User errors
var (
	ErrUserNotFound       = newError(KindNotFound, "user not found")
	ErrUserAlreadyExists  = newError(KindConflict, "user already exists")
	ErrInvalidEmail       = newError(KindValidation, "invalid email")
	ErrInvalidUserData    = newError(KindValidation, "invalid user data")
	ErrInvalidRole        = newError(KindValidation, "invalid user role")
	ErrInvalidCredentials = newError(KindUnauthenticated, "invalid credentials")
)

// Vehicle errors
var (
	ErrVehicleNotFound      = newError(KindNotFound, "vehicle not found")
	ErrVehicleAlreadyExists = newError(KindConflict, "vehicle with this plate already exists")
	ErrInvalidPlate         = newError(KindValidation, "invalid plate")
	ErrInvalidVehicleData   = newError(KindValidation, "invalid vehicle data")
	ErrInvalidCapacity      = newError(KindValidation, "capacity must be greater than zero")
	ErrOdometerDecrease     = newError(KindValidation, "odometer cannot decrease")
	ErrVehicleNotAvailable  = newError(KindConflict, "vehicle is not available")
	ErrVehicleOnTrip        = newError(KindConflict, "vehicle is on an active trip")
	ErrInvalidVehicleStatus = newError(KindConflict, "invalid vehicle status transition")
)

// Driver errors
var (
	ErrDriverNotFound      = newError(KindNotFound, "driver not found")
	ErrDriverAlreadyExists = newError(KindConflict, "driver with this license already exists")
	ErrInvalidDriverData   = newError(KindValidation, "invalid driver data")
	ErrLicenseExpired      = newError(KindConflict, "driver license expired")
	ErrDriverNotOnDuty     = newError(KindConflict, "driver is not on duty")
	ErrDriverOnTrip        = newError(KindConflict, "driver is on an active trip")
	ErrInvalidDriverStatus = newError(KindValidation, "invalid driver status")
)

// Trip errors
var (
	ErrTripNotFound          = newError(KindNotFound, "trip not found")
	ErrInvalidTripData       = newError(KindValidation, "invalid trip data")
	ErrInvalidCargoWeight    = newError(KindValidation, "cargo weight must be greater than zero")
	ErrCargoExceedsCapacity  = newError(KindConflict, "cargo weight exceeds vehicle capacity")
	ErrMissingRoute          = newError(KindValidation, "origin and destination are required")
	ErrInvalidTripTransition = newError(KindConflict, "invalid trip status transition")
	ErrTripNotEditable       = newError(KindConflict, "only draft trips can be edited")
	ErrInvalidFinalOdometer  = newError(KindValidation, "final odometer is below current odometer")
)

// Maintenance errors
var (
	ErrMaintenanceNotFound          = newError(KindNotFound, "maintenance log not found")
	ErrInvalidMaintenanceData       = newError(KindValidation, "invalid maintenance data")
	ErrInvalidMaintenanceTransition = newError(KindConflict, "invalid maintenance status transition")
)

// Expense errors
var (
	ErrExpenseNotFound    = newError(KindNotFound, "expense not found")
	ErrInvalidExpenseData = newError(KindValidation, "invalid expense data")
)

// Authorization errors
var (
	ErrUnauthorized = newError(KindUnauthenticated, "unauthorized")
	ErrForbidden    = newError(KindForbidden, "forbidden")
	ErrTokenExpired = newError(KindUnauthenticated, "token expired")
	ErrInvalidToken = newError(KindUnauthenticated, "invalid token")
	ErrTokenRevoked = newError(KindUnauthenticated, "token revoked")
)
