package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/grocerystore/internal/models"
)

func (r *GormRepo) RoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *GormRepo) EnsureRole(ctx context.Context, name string) (*models.Role, error) {
	role := models.Role{Name: name}
	if err := r.DB.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// UserByEmail matches the email exactly, case included.
func (r *GormRepo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateUser inserts u and links it to the already persisted roles in u.Roles.
func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roles := u.Roles
		if err := tx.Omit(clause.Associations).Create(u).Error; err != nil {
			return err
		}
		if len(roles) == 0 {
			return nil
		}
		return tx.Model(u).Association("Roles").Append(roles)
	})
}

// UpdateProfile writes the mutable profile columns only. Email and roles stay.
func (r *GormRepo) UpdateProfile(ctx context.Context, u *models.User) error {
	res := r.DB.WithContext(ctx).Model(u).
		Omit(clause.Associations).
		Select("name", "address", "contact_number", "password_hash", "updated_at").
		Updates(u)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) AddRoles(ctx context.Context, u *models.User, roles ...models.Role) error {
	return r.DB.WithContext(ctx).Model(u).Association("Roles").Append(roles)
}

func (r *GormRepo) SearchUsersByName(ctx context.Context, name string) ([]models.User, error) {
	users := []models.User{}
	if err := r.DB.WithContext(ctx).
		Preload("Roles").
		Where(nameContains, containsPattern(name)).
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
