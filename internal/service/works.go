package service

import (
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/artvitrina/portfolio-back/internal/db"
)

const (
	// DefaultWorkTitle is assigned when a work is created without one.
	DefaultWorkTitle = "Без названия"
	// DeletedWorkTitle overwrites the title of a soft-deleted work. The
	// row and its id stay behind so favorites keep a stable reference.
	DeletedWorkTitle = "[Deleted]"
)

var ErrWorkNotFound = errors.New("work not found")

type (
	// WorkRow is a works row joined with the author's nickname.
	WorkRow struct {
		ID             uint64
		UserID         *uint64
		Title          string
		Description    string
		ImageURL       string
		Price          *float64
		CreatedAt      time.Time
		AuthorNickname *string
	}

	Works struct {
		db     *gorm.DB
		logger *zap.SugaredLogger
	}
)

func NewWorks(db *gorm.DB, l *zap.SugaredLogger) *Works {
	return &Works{
		db:     db,
		logger: l,
	}
}

func (s *Works) List() ([]WorkRow, error) {
	sql, args, err := squirrel.
		Select("w.id", "w.user_id", "w.title", "w.description", "w.image_url", "w.price", "w.created_at",
			"u.nickname AS author_nickname").
		From("works w").
		LeftJoin("users u ON w.user_id = u.id").
		OrderBy("w.created_at DESC").
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

func (s *Works) Create(userID uint64, title, description, image string, price *float64) (*db.Work, error) {
	if title == "" {
		title = DefaultWorkTitle
	}

	model := db.Work{
		UserID:      &userID,
		Title:       title,
		Description: description,
		ImageURL:    image,
		Price:       price,
	}

	res := s.db.Create(&model)
	if res.Error != nil {
		return nil, res.Error
	}

	return &model, nil
}

// SoftDelete blanks the title and image of a work but keeps the row.
// Re-deleting an already deleted work succeeds and re-applies the marker.
func (s *Works) SoftDelete(id uint64) error {
	work := db.Work{}
	res := s.db.Select("id").Where("id = ?", id).First(&work)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return ErrWorkNotFound
		}
		return errors.Wrap(res.Error, "find work")
	}

	res = s.db.Model(&db.Work{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":     DeletedWorkTitle,
		"image_url": "",
	})
	if res.Error != nil {
		return errors.Wrap(res.Error, "mark deleted")
	}

	return nil
}
