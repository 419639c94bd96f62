package user

import (
	"time"
)

// Role discriminates drivers from riders
type Role string

const (
	RoleDriver Role = "driver"
	RoleRider  Role = "rider"
)

// IsValid validates the role
func (r Role) IsValid() bool {
	switch r {
	case RoleDriver, RoleRider:
		return true
	}
	return false
}

// DriverProfile carries the attributes only drivers have. A rider's User
// never holds one, so a populated profile implies role = driver.
type DriverProfile struct {
	LicenseNumber string `json:"license_number"`
	VehicleModel  string `json:"vehicle_model"`
	VehiclePlate  string `json:"vehicle_plate"`
	DocumentKey   string `json:"document_key,omitempty"`
}

// User represents a registered account, driver or rider
type User struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	Role         Role           `json:"role"`
	PasswordHash string         `json:"-"`
	Driver       *DriverProfile `json:"driver,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Identity is the resolved authentication context passed explicitly into
// every service operation.
type Identity struct {
	UserID int64
	Role   Role
}

// IsDriver reports whether the identity holds the driver role
func (i Identity) IsDriver() bool {
	return i.Role == RoleDriver
}

// IsRider reports whether the identity holds the rider role
func (i Identity) IsRider() bool {
	return i.Role == RoleRider
}
