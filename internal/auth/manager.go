package auth

import (
	"errors"

	"snapfeed/internal/apperrors"
	"snapfeed/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserManager implements the identity-provider contract: account creation,
// credential checks, password reset and email verification. Handlers consume
// it; nothing outside this package touches password hashes.
type UserManager struct {
	DB     *gorm.DB
	Tokens *TokenIssuer
}

func NewUserManager(db *gorm.DB, tokens *TokenIssuer) *UserManager {
	return &UserManager{DB: db, Tokens: tokens}
}

func (m *UserManager) Register(email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.New(apperrors.Validation, "email and password are required")
	}

	var count int64
	if err := m.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.Persistence, err)
	}
	if count > 0 {
		return nil, apperrors.New(apperrors.Validation, "a user with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Persistence, err)
	}

	user := &models.User{
		Email:          email,
		HashedPassword: string(hash),
		IsActive:       true,
	}
	if err := m.DB.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.Persistence, err)
	}
	return user, nil
}

// Authenticate checks credentials and returns the user plus a session token.
// Bad credentials and inactive accounts are indistinguishable to the caller.
func (m *UserManager) Authenticate(email, password string) (*models.User, string, error) {
	badCredentials := apperrors.New(apperrors.Validation, "invalid credentials")

	var user models.User
	if err := m.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", badCredentials
		}
		return nil, "", apperrors.Wrap(apperrors.Persistence, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return nil, "", badCredentials
	}
	if !user.IsActive {
		return nil, "", badCredentials
	}

	token, err := m.Tokens.AccessToken(user.ID)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.Persistence, err)
	}
	return &user, token, nil
}

func (m *UserManager) ByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := m.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.Persistence, err)
	}
	return &user, nil
}

// ForgotPassword returns a reset token for the account, or an empty string
// when no matching active account exists. Callers must not reveal which.
func (m *UserManager) ForgotPassword(email string) (string, error) {
	var user models.User
	if err := m.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", apperrors.Wrap(apperrors.Persistence, err)
	}
	if !user.IsActive {
		return "", nil
	}
	token, err := m.Tokens.PurposeToken(user.ID, PurposeReset)
	if err != nil {
		return "", apperrors.Wrap(apperrors.Persistence, err)
	}
	return token, nil
}

func (m *UserManager) ResetPassword(token, password string) error {
	id, err := m.Tokens.ParsePurposeToken(token, PurposeReset)
	if err != nil {
		return apperrors.New(apperrors.Validation, "invalid or expired reset token")
	}
	if password == "" {
		return apperrors.New(apperrors.Validation, "password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.Persistence, err)
	}
	res := m.DB.Model(&models.User{}).Where("id = ?", id).Update("hashed_password", string(hash))
	if res.Error != nil {
		return apperrors.Wrap(apperrors.Persistence, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.New(apperrors.Validation, "invalid or expired reset token")
	}
	return nil
}

// RequestVerifyToken returns a verification token, or an empty string when the
// account is missing, inactive, or already verified.
func (m *UserManager) RequestVerifyToken(email string) (string, error) {
	var user models.User
	if err := m.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", apperrors.Wrap(apperrors.Persistence, err)
	}
	if !user.IsActive || user.IsVerified {
		return "", nil
	}
	token, err := m.Tokens.PurposeToken(user.ID, PurposeVerify)
	if err != nil {
		return "", apperrors.Wrap(apperrors.Persistence, err)
	}
	return token, nil
}

func (m *UserManager) Verify(token string) (*models.User, error) {
	id, err := m.Tokens.ParsePurposeToken(token, PurposeVerify)
	if err != nil {
		return nil, apperrors.New(apperrors.Validation, "invalid or expired verification token")
	}
	user, err := m.ByID(id)
	if err != nil {
		return nil, err
	}
	if !user.IsVerified {
		if err := m.DB.Model(user).Update("is_verified", true).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.Persistence, err)
		}
		user.IsVerified = true
	}
	return user, nil
}

// UserPatch holds the optional fields of a profile update.
type UserPatch struct {
	Email       *string
	Password    *string
	IsActive    *bool
	IsSuperuser *bool
	IsVerified  *bool
}

// UpdateUser applies a patch to the user. The admin-only flags are ignored
// unless asAdmin is set.
func (m *UserManager) UpdateUser(id uuid.UUID, patch UserPatch, asAdmin bool) (*models.User, error) {
	user, err := m.ByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.Persistence, err)
		}
		updates["hashed_password"] = string(hash)
	}
	if asAdmin {
		if patch.IsActive != nil {
			updates["is_active"] = *patch.IsActive
		}
		if patch.IsSuperuser != nil {
			updates["is_superuser"] = *patch.IsSuperuser
		}
		if patch.IsVerified != nil {
			updates["is_verified"] = *patch.IsVerified
		}
	}
	if len(updates) == 0 {
		return user, nil
	}
	if err := m.DB.Model(user).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.Persistence, err)
	}
	return m.ByID(id)
}

func (m *UserManager) DeleteUser(id uuid.UUID) error {
	res := m.DB.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.Persistence, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.New(apperrors.NotFound, "user not found")
	}
	return nil
}
