package auth

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rotacerta/rideshare/internal/domain/user"
	apperrors "github.com/rotacerta/rideshare/pkg/errors"
	"github.com/rotacerta/rideshare/pkg/logger"
	"github.com/rotacerta/rideshare/pkg/storage"
)

// Service handles account registration, login, and token resolution.
type Service struct {
	db     *sql.DB
	store  storage.Store
	logger *logger.Logger
	secret []byte
	expiry time.Duration
}

// Config holds auth service configuration
type Config struct {
	JWTSecret string
	JWTExpiry time.Duration
}

// NewService creates a new auth service
func NewService(db *sql.DB, store storage.Store, log *logger.Logger, cfg Config) *Service {
	return &Service{
		db:     db,
		store:  store,
		logger: log,
		secret: []byte(cfg.JWTSecret),
		expiry: cfg.JWTExpiry,
	}
}

// Claims are the JWT claims carried by access tokens
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RegisterInput carries everything needed to create an account. Document
// is required for drivers and ignored for riders.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     user.Role

	LicenseNumber string
	VehicleModel  string
	VehiclePlate  string
	Document      io.Reader
	DocumentName  string
}

// Register creates a driver or rider account. Drivers must supply license
// number, vehicle model, plate, and a scanned document, which is persisted
// through the document store before the row is written.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*user.User, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperrors.BadRequest("Name, email and password are required", nil)
	}
	if !in.Role.IsValid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("Role must be %q or %q", user.RoleDriver, user.RoleRider), nil)
	}

	var existingID int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM users WHERE email = $1`, in.Email).Scan(&existingID)
	if err == nil {
		return nil, apperrors.ErrEmailTaken
	}
	if err != sql.ErrNoRows {
		return nil, apperrors.Internal("Failed to check email", err)
	}

	var profile *user.DriverProfile
	if in.Role == user.RoleDriver {
		if in.LicenseNumber == "" || in.VehicleModel == "" || in.VehiclePlate == "" || in.Document == nil {
			return nil, apperrors.BadRequest(
				"Drivers must provide license number, vehicle model, plate and a scanned document", nil)
		}

		key := fmt.Sprintf("documents/%s%s", uuid.NewString(), strings.ToLower(filepath.Ext(in.DocumentName)))
		if _, err := s.store.Save(ctx, key, storage.ContentTypeFor(in.DocumentName), in.Document); err != nil {
			return nil, apperrors.Internal("Failed to store driver document", err)
		}

		profile = &user.DriverProfile{
			LicenseNumber: in.LicenseNumber,
			VehicleModel:  in.VehicleModel,
			VehiclePlate:  in.VehiclePlate,
			DocumentKey:   key,
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	u := &user.User{
		Name:   in.Name,
		Email:  in.Email,
		Phone:  in.Phone,
		Role:   in.Role,
		Driver: profile,
	}

	var license, model, plate, docKey sql.NullString
	if profile != nil {
		license = sql.NullString{String: profile.LicenseNumber, Valid: true}
		model = sql.NullString{String: profile.VehicleModel, Valid: true}
		plate = sql.NullString{String: profile.VehiclePlate, Valid: true}
		docKey = sql.NullString{String: profile.DocumentKey, Valid: true}
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, phone, role, license_number, vehicle_model, vehicle_plate, document_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, u.Name, u.Email, string(hash), u.Phone, string(u.Role), license, model, plate, docKey).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return nil, apperrors.Internal("Failed to create user", err)
	}

	s.logger.Info("User registered",
		logger.Int64("user_id", u.ID),
		logger.String("role", string(u.Role)),
	)

	return u, nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *user.User, error) {
	u, err := s.getByEmail(ctx, email)
	if err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.IssueToken(u)
	if err != nil {
		return "", nil, apperrors.Internal("Failed to issue token", err)
	}

	s.logger.Info("User logged in", logger.Int64("user_id", u.ID))
	return token, u, nil
}

// IssueToken signs a JWT for the given user.
func (s *Service) IssueToken(u *user.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		Role:   string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ResolveIdentity verifies a bearer token and returns the identity it names.
func (s *Service) ResolveIdentity(tokenString string) (user.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return user.Identity{}, apperrors.Unauthorized("Invalid or expired token", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return user.Identity{}, apperrors.Unauthorized("Invalid token claims", nil)
	}

	role := user.Role(claims.Role)
	if claims.UserID == 0 || !role.IsValid() {
		return user.Identity{}, apperrors.Unauthorized("Invalid token claims", nil)
	}

	return user.Identity{UserID: claims.UserID, Role: role}, nil
}

// ListByRole returns all users holding the given role, drivers with their
// profile embedded.
func (s *Service) ListByRole(ctx context.Context, role user.Role) ([]*user.User, error) {
	if !role.IsValid() {
		return nil, apperrors.BadRequest("Invalid role", nil)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, phone, role, license_number, vehicle_model, vehicle_plate, document_key, created_at
		FROM users
		WHERE role = $1
		ORDER BY id
	`, string(role))
	if err != nil {
		return nil, apperrors.Internal("Failed to list users", err)
	}
	defer rows.Close()

	users := make([]*user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.Internal("Failed to scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Internal("Failed to list users", err)
	}
	return users, nil
}

func (s *Service) getByEmail(ctx context.Context, email string) (*user.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, role, password_hash, license_number, vehicle_model, vehicle_plate, document_key, created_at
		FROM users
		WHERE email = $1
	`, email)

	var (
		u                          user.User
		role                       string
		license, model, plate, doc sql.NullString
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &role, &u.PasswordHash, &license, &model, &plate, &doc, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to load user", err)
	}

	u.Role = user.Role(role)
	if u.Role == user.RoleDriver {
		u.Driver = &user.DriverProfile{
			LicenseNumber: license.String,
			VehicleModel:  model.String,
			VehiclePlate:  plate.String,
			DocumentKey:   doc.String,
		}
	}
	return &u, nil
}

func scanUser(rows *sql.Rows) (*user.User, error) {
	var (
		u                          user.User
		role                       string
		license, model, plate, doc sql.NullString
	)
	if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &role, &license, &model, &plate, &doc, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = user.Role(role)
	if u.Role == user.RoleDriver {
		u.Driver = &user.DriverProfile{
			LicenseNumber: license.String,
			VehicleModel:  model.String,
			VehiclePlate:  plate.String,
			DocumentKey:   doc.String,
		}
	}
	return &u, nil
}
