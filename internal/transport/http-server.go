package transport

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/artvitrina/portfolio-back/internal/config"
	"github.com/artvitrina/portfolio-back/internal/service"
)

const preflightMaxAge = "86400"

type (
	WorkCreateReq struct {
		UserID      uint64   `json:"user_id"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		ImageData   string   `json:"image_data"`
		Price       *float64 `json:"price"`
	}

	WorkResp struct {
		ID          uint64    `json:"id"`
		UserID      *uint64   `json:"user_id"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		ImageURL    string    `json:"image_url"`
		Price       *float64  `json:"price"`
		CreatedAt   time.Time `json:"created_at"`
	}

	// WorkListItem is a work as it appears in listings, carrying the
	// author's nickname resolved by the join.
	WorkListItem struct {
		ID             uint64    `json:"id"`
		UserID         *uint64   `json:"user_id"`
		Title          string    `json:"title"`
		Description    string    `json:"description"`
		ImageURL       string    `json:"image_url"`
		Price          *float64  `json:"price"`
		CreatedAt      time.Time `json:"created_at"`
		AuthorNickname *string   `json:"author_nickname"`
	}

	WorkListResp struct {
		Works []WorkListItem `json:"works"`
	}

	WorkCreateResp struct {
		Success bool     `json:"success"`
		Work    WorkResp `json:"work"`
	}

	FavoriteReq struct {
		UserID uint64 `json:"user_id"`
		WorkID uint64 `json:"work_id"`
	}

	FavoriteListResp struct {
		Favorites []WorkListItem `json:"favorites"`
	}

	ProfileUpdateReq struct {
		UserID    uint64  `json:"user_id"`
		Nickname  *string `json:"nickname"`
		AvatarURL *string `json:"avatar_url"`
		Password  *string `json:"password"`
	}

	// UserResp deliberately has no slot for the credential hash.
	UserResp struct {
		ID        uint64 `json:"id"`
		Username  string `json:"username"`
		Nickname  string `json:"nickname"`
		AvatarURL string `json:"avatar_url"`
		IsAdmin   bool   `json:"is_admin"`
	}

	ProfileUpdateResp struct {
		Success bool     `json:"success"`
		User    UserResp `json:"user"`
	}

	MessageResp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}

	ErrorResp struct {
		Error string `json:"error"`
	}

	CustomValidator struct {
		validator *validator.Validate
	}

	HTTPServer struct {
		echo      *echo.Echo
		works     *service.Works
		favorites *service.Favorites
		profile   *service.Profile
	}
)

func NewHTTPServer(lc fx.Lifecycle, cfg *config.Config, works *service.Works, favorites *service.Favorites, profile *service.Profile, logger *zap.SugaredLogger) *HTTPServer {
	e := echo.New()
	e.HideBanner = true

	instance := HTTPServer{
		echo:      e,
		works:     works,
		favorites: favorites,
		profile:   profile,
	}

	workG := e.Group("/works")
	workG.GET("", instance.WorkList)
	workG.POST("", instance.WorkCreate)
	workG.DELETE("", instance.WorkDelete)
	workG.OPTIONS("", Preflight("GET, POST, PUT, DELETE, OPTIONS", "Content-Type, X-User-Id"))

	favoriteG := e.Group("/favorites")
	favoriteG.GET("", instance.FavoriteList)
	favoriteG.POST("", instance.FavoriteAdd)
	favoriteG.DELETE("", instance.FavoriteRemove)
	favoriteG.OPTIONS("", Preflight("GET, POST, DELETE, OPTIONS", "Content-Type"))

	e.PUT("/profile", instance.ProfileUpdate)
	e.OPTIONS("/profile", Preflight("PUT, OPTIONS", "Content-Type"))

	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(AllowOrigin)

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = ErrorHandler

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				listen := cfg.Host + ":" + cfg.Port
				if err := e.Start(listen); err != nil && err != http.ErrServerClosed {
					e.Logger.Fatal("shutting down the server")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server.")
			return e.Shutdown(ctx)
		},
	})

	return &instance
}

func (s *HTTPServer) WorkList(c echo.Context) error {
	works, err := s.works.List()
	if err != nil {
		return err
	}

	resp := make([]WorkListItem, len(works))
	for i := range works {
		resp[i] = workListItem(&works[i])
	}
	return c.JSON(http.StatusOK, WorkListResp{Works: resp})
}

func (s *HTTPServer) WorkCreate(c echo.Context) error {
	req := WorkCreateReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}
	if req.UserID == 0 || req.ImageData == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "User ID and image data are required")
	}

	model, err := s.works.Create(req.UserID, req.Title, req.Description, req.ImageData, req.Price)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, WorkCreateResp{
		Success: true,
		Work: WorkResp{
			ID:          model.ID,
			UserID:      model.UserID,
			Title:       model.Title,
			Description: model.Description,
			ImageURL:    model.ImageURL,
			Price:       model.Price,
			CreatedAt:   model.CreatedAt,
		},
	})
}

func (s *HTTPServer) WorkDelete(c echo.Context) error {
	id, err := GetAndParseQueryParam(c, "id", "Work ID is required")
	if err != nil {
		return err
	}

	if err := s.works.SoftDelete(id); err != nil {
		if errors.Is(err, service.ErrWorkNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Work not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, MessageResp{Success: true, Message: "Work deleted"})
}

func (s *HTTPServer) FavoriteList(c echo.Context) error {
	userID, err := GetAndParseQueryParam(c, "user_id", "User ID is required")
	if err != nil {
		return err
	}

	favorites, err := s.favorites.ListByUser(userID)
	if err != nil {
		return err
	}

	resp := make([]WorkListItem, len(favorites))
	for i := range favorites {
		resp[i] = workListItem(&favorites[i])
	}
	return c.JSON(http.StatusOK, FavoriteListResp{Favorites: resp})
}

func (s *HTTPServer) FavoriteAdd(c echo.Context) error {
	req := FavoriteReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}
	if req.UserID == 0 || req.WorkID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "User ID and Work ID are required")
	}

	if err := s.favorites.Add(req.UserID, req.WorkID); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, MessageResp{Success: true, Message: "Added to favorites"})
}

func (s *HTTPServer) FavoriteRemove(c echo.Context) error {
	userID, err := GetAndParseQueryParam(c, "user_id", "User ID and Work ID are required")
	if err != nil {
		return err
	}
	workID, err := GetAndParseQueryParam(c, "work_id", "User ID and Work ID are required")
	if err != nil {
		return err
	}

	if err := s.favorites.Remove(userID, workID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, MessageResp{Success: true, Message: "Removed from favorites"})
}

func (s *HTTPServer) ProfileUpdate(c echo.Context) error {
	req := ProfileUpdateReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}
	if req.UserID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "User ID is required")
	}

	upd := service.ProfileUpdate{
		Nickname:  req.Nickname,
		AvatarURL: req.AvatarURL,
		Password:  req.Password,
	}
	if upd.Empty() {
		return echo.NewHTTPError(http.StatusBadRequest, "No updates provided")
	}

	user, err := s.profile.Update(req.UserID, upd)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, ProfileUpdateResp{
		Success: true,
		User: UserResp{
			ID:        user.ID,
			Username:  user.Username,
			Nickname:  user.Nickname,
			AvatarURL: user.AvatarURL,
			IsAdmin:   user.IsAdmin,
		},
	})
}

////////

// Preflight answers OPTIONS with the method set of its resource. The
// Allow-Origin header comes from the AllowOrigin middleware.
func Preflight(allowMethods, allowHeaders string) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set(echo.HeaderAccessControlAllowMethods, allowMethods)
		h.Set(echo.HeaderAccessControlAllowHeaders, allowHeaders)
		h.Set(echo.HeaderAccessControlMaxAge, preflightMaxAge)
		return c.NoContent(http.StatusOK)
	}
}

func AllowOrigin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderAccessControlAllowOrigin, "*")
		return next(c)
	}
}

// ErrorHandler shapes every error into the {"error": "..."} envelope.
// Errors that are not echo.HTTPError (persistence failures and the like)
// surface as a generic 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "Internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
		if code == http.StatusMethodNotAllowed {
			msg = "Method not allowed"
		}
	} else {
		c.Logger().Error(err)
	}

	if err := c.JSON(code, ErrorResp{Error: msg}); err != nil {
		c.Logger().Error(err)
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return nil
}

func BindAndValidate(c echo.Context, v interface{}) error {
	var err error
	if err = c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err = c.Validate(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func GetAndParseQueryParam(c echo.Context, name, missingMsg string) (uint64, error) {
	value := c.QueryParam(name)
	if value == "" {
		return 0, echo.NewHTTPError(http.StatusBadRequest, missingMsg)
	}
	v, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid query param '"+name+"'")
	}
	return v, nil
}

func workListItem(w *service.WorkRow) WorkListItem {
	return WorkListItem{
		ID:             w.ID,
		UserID:         w.UserID,
		Title:          w.Title,
		Description:    w.Description,
		ImageURL:       w.ImageURL,
		Price:          w.Price,
		CreatedAt:      w.CreatedAt,
		AuthorNickname: w.AuthorNickname,
	}
}
