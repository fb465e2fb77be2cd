package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/you/guardianauth/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID                   string `gorm:"primaryKey;size:36"`
	Name                 string `gorm:"size:100"`
	Email                string `gorm:"uniqueIndex;size:255"`
	Phone                string `gorm:"size:32"`
	PasswordHash         string `gorm:"column:password_hash"`
	Role                 string `gorm:"index;size:16;default:investor"`
	IsVerified           bool   `gorm:"index"`
	VerificationToken    string `gorm:"index;size:64"`
	VerificationExpires  *time.Time
	ResetPasswordToken   string `gorm:"index;size:64"`
	ResetPasswordExpires *time.Time
	RiskScore            int `gorm:"default:0"`
	LastLogin            *time.Time
	Settings             datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt            time.Time         `gorm:"index"`
	UpdatedAt            time.Time
	DeletedAt            gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (u *DBUser) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		return err
	}
	user.ID = dbUser.ID
	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByVerificationToken implements domain.UserRepository. Only unexpired
// tokens match.
func (r *UserRepositoryImpl) FindByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).
		Where("verification_token = ? AND verification_expires > ?", token, time.Now()).
		First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrVerificationTokenInvalid
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByResetToken implements domain.UserRepository. Only unexpired tokens
// match.
func (r *UserRepositoryImpl) FindByResetToken(ctx context.Context, token string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).
		Where("reset_password_token = ? AND reset_password_expires > ?", token, time.Now()).
		First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrResetTokenInvalid
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// List implements domain.UserRepository
func (r *UserRepositoryImpl) List(ctx context.Context) ([]*domain.User, error) {
	var dbUsers []DBUser
	if err := r.db.WithContext(ctx).Order("created_at").Find(&dbUsers).Error; err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(dbUsers))
	for i := range dbUsers {
		users = append(users, r.dbToDomain(&dbUsers[i]))
	}
	return users, nil
}

// Update implements domain.UserRepository. Save writes every column so
// cleared token fields actually reach the database.
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	dbUser.CreatedAt = user.CreatedAt
	return r.db.WithContext(ctx).Save(dbUser).Error
}

// Delete implements domain.UserRepository. Admin deletion is permanent.
func (r *UserRepositoryImpl) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&DBUser{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:                   user.ID,
		Name:                 user.Name,
		Email:                user.Email,
		Phone:                user.Phone,
		PasswordHash:         user.PasswordHash,
		Role:                 user.Role,
		IsVerified:           user.IsVerified,
		VerificationToken:    user.VerificationToken,
		VerificationExpires:  user.VerificationExpires,
		ResetPasswordToken:   user.ResetPasswordToken,
		ResetPasswordExpires: user.ResetPasswordExpires,
		RiskScore:            user.RiskScore,
		LastLogin:            user.LastLogin,
		Settings:             datatypes.JSONMap(user.Settings),
	}
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:                   dbUser.ID,
		Name:                 dbUser.Name,
		Email:                dbUser.Email,
		Phone:                dbUser.Phone,
		PasswordHash:         dbUser.PasswordHash,
		Role:                 dbUser.Role,
		IsVerified:           dbUser.IsVerified,
		VerificationToken:    dbUser.VerificationToken,
		VerificationExpires:  dbUser.VerificationExpires,
		ResetPasswordToken:   dbUser.ResetPasswordToken,
		ResetPasswordExpires: dbUser.ResetPasswordExpires,
		RiskScore:            dbUser.RiskScore,
		LastLogin:            dbUser.LastLogin,
		Settings:             map[string]interface{}(dbUser.Settings),
		CreatedAt:            dbUser.CreatedAt,
		UpdatedAt:            dbUser.UpdatedAt,
	}
}
