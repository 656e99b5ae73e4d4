package service

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/artvitrina/portfolio-back/internal/db"
)

var ErrUserNotFound = errors.New("user not found")

type (
	// ProfileUpdate carries the fields a user may change about themselves.
	// A nil field means "leave as is".
	ProfileUpdate struct {
		Nickname  *string
		AvatarURL *string
		Password  *string
	}

	Profile struct {
		db     *gorm.DB
		logger *zap.SugaredLogger
	}
)

func (u *ProfileUpdate) Empty() bool {
	return u.Nickname == nil && u.AvatarURL == nil && u.Password == nil
}

func NewProfile(db *gorm.DB, l *zap.SugaredLogger) *Profile {
	return &Profile{
		db:     db,
		logger: l,
	}
}

// Update applies a partial update to the user. Column names come from the
// fixed set below, values are always bound; the plaintext password never
// leaves this method.
func (s *Profile) Update(userID uint64, upd ProfileUpdate) (*db.User, error) {
	updates := map[string]interface{}{}
	if upd.Nickname != nil {
		updates["nickname"] = *upd.Nickname
	}
	if upd.AvatarURL != nil {
		updates["avatar_url"] = *upd.AvatarURL
	}
	if upd.Password != nil {
		hash, err := s.bcryptGen(*upd.Password)
		if err != nil {
			return nil, errors.Wrap(err, "bcryptGen")
		}
		updates["password_hash"] = hash
	}

	res := s.db.Model(&db.User{}).Where("id = ?", userID).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	user := db.User{}
	res = s.db.Where("id = ?", userID).First(&user)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "get user")
	}

	return &user, nil
}

func (s *Profile) bcryptGen(pass string) (string, error) {
	passwordHashB, err := bcrypt.GenerateFromPassword([]byte(pass), 14)
	if err != nil {
		return "", errors.Wrap(err, "generate password hash")
	}
	return string(passwordHashB), nil
}
