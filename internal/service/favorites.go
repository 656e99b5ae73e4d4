package service

import (
	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/artvitrina/portfolio-back/internal/db"
)

type Favorites struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewFavorites(db *gorm.DB, l *zap.SugaredLogger) *Favorites {
	return &Favorites{
		db:     db,
		logger: l,
	}
}

func (s *Favorites) ListByUser(userID uint64) ([]WorkRow, error) {
	sql, args, err := squirrel.
		Select("w.id", "w.user_id", "w.title", "w.description", "w.image_url", "w.price", "w.created_at",
			"u.nickname AS author_nickname").
		From("works w").
		Join("favorites f ON w.id = f.work_id").
		LeftJoin("users u ON w.user_id = u.id").
		Where(squirrel.Eq{"f.user_id": userID}).
		OrderBy("f.created_at DESC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	works := make([]WorkRow, 0)
	res := s.db.Raw(sql, args...).Scan(&works)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "scan")
	}

	return works, nil
}

// Add is idempotent: a duplicate (user_id, work_id) pair hits the unique
// index and is silently skipped.
func (s *Favorites) Add(userID, workID uint64) error {
	model := db.Favorite{
		UserID: userID,
		WorkID: &workID,
	}

	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "work_id"}},
		DoNothing: true,
	}).Create(&model)
	if res.Error != nil {
		return res.Error
	}

	return nil
}

// Remove detaches the favorite from its work by nulling work_id, which
// drops it from listings. Removing a favorite that does not exist is a
// success no-op.
func (s *Favorites) Remove(userID, workID uint64) error {
	fav := db.Favorite{}
	res := s.db.Where("user_id = ? AND work_id = ?", userID, workID).First(&fav)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil
		}
		return errors.Wrap(res.Error, "find favorite")
	}

	res = s.db.Model(&fav).Update("work_id", nil)
	if res.Error != nil {
		return errors.Wrap(res.Error, "detach favorite")
	}

	return nil
}
