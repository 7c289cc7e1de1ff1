package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/ko"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jungsanbot/backend/internal/config"
	"github.com/jungsanbot/backend/internal/domain"
	"github.com/jungsanbot/backend/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	locale := ko.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("ko")
	if err := registerKoreanTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 아래 API 는 로그인 후에만 호출할 수 있다
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.myInfo)

		r.Get("/my-info", h.GetMyInfo)

		r.Route("/settlements", func(r chi.Router) {
			r.Post("/parse", h.ParseSettlement)

			r.Route("/previews/{previewID}", func(r chi.Router) {
				r.Use(h.settlementPreview)
				r.Get("/", h.GetSettlementPreview)
				r.Post("/confirm", h.ConfirmSettlementPreview)
			})

			r.Route("/batches", func(r chi.Router) {
				r.Get("/", h.GetAllSettlementBatches)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.settlementBatch)
					r.Get("/", h.GetSettlementBatch)
					r.Get("/daily-orders", h.GetSettlementBatchDailyOrders)
					r.With(h.RequiredRole([]domain.Role{domain.RoleSuperAdmin})).Delete("/", h.DeleteSettlementBatch)
				})
			})
		})
	})
}
