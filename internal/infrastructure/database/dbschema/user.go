package dbschema

import (
	"time"

	"medisage-api/internal/domain/model"
	"medisage-api/internal/domain/user"
	"medisage-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(User{})
}

// BaseModel carries the columns shared by mutable tables.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// User is the persisted account row. The hash lives in the password column.
type User struct {
	BaseModel
	Username     string  `gorm:"type:varchar(64);not null;uniqueIndex:ux_users_username"`
	Email        string  `gorm:"type:varchar(320);not null"`
	Name         *string `gorm:"type:varchar(128)"`
	PasswordHash string  `gorm:"column:password;not null"`
	Role         string  `gorm:"type:varchar(32);not null;default:'user'"`
	Tier         string  `gorm:"type:varchar(32);not null;default:'personal'"`
}

func (User) TableName() string {
	return "users"
}

// NewSchemaUser converts a domain user into a schema instance.
func NewSchemaUser(u *user.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		BaseModel: BaseModel{
			ID:        u.ID,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
		},
		Username:     u.Username,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Tier:         string(u.Tier),
	}
}

// EtoD converts a schema user back to the domain representation.
func (u *User) EtoD() *user.User {
	if u == nil {
		return nil
	}
	tier, err := model.ParseTier(u.Tier)
	if err != nil {
		tier = model.TierPersonal
	}
	return &user.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Tier:         tier,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
