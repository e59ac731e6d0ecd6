package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/edutracker/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	t := repo.db.user
	t.mutex.Lock()
	defer t.mutex.Unlock()

	for _, u := range t.table {
		if u.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}
	usr.ID = uuid.NewString()
	t.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) GetUserByID(_ context.Context, id string) (user.User, error) {
	t := repo.db.user
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if usr, ok := t.table[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	t := repo.db.user
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	for _, usr := range t.table {
		if usr.Email == email {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	t := repo.db.user
	t.mutex.Lock()
	defer t.mutex.Unlock()

	origUsr, ok := t.table[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	// only save set fields
	if usr.PasswordHash != nil {
		origUsr.PasswordHash = usr.PasswordHash
	}
	if !usr.LastLogin.IsZero() {
		origUsr.LastLogin = usr.LastLogin
	}
	origUsr.Name = usr.Name
	origUsr.Email = usr.Email
	origUsr.Settings = usr.Settings
	origUsr.UpdatedAt = usr.UpdatedAt
	return *origUsr, nil
}
