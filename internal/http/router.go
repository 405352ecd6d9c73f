package api

import (
	"database/sql"
	"log"
	stdhttp "net/http"
	"time"

	intconfig "coachtickets/internal/config"
	"coachtickets/internal/domain/models"
	h "coachtickets/internal/http/handlers"
	"coachtickets/internal/http/middleware"
	"coachtickets/internal/payments"
	"coachtickets/internal/repositories"
	"coachtickets/internal/services"
	"coachtickets/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires repositories, services and handlers. The payment
// provider comes in constructed; nothing here reads provider secrets.
func NewRouter(env intconfig.Env, db *sql.DB, stripe *payments.StripeClient) *gin.Engine {
	routeRepo := repositories.RouteRepository{DB: db}
	bookingRepo := repositories.BookingRepository{DB: db}
	promoRepo := repositories.PromoRepository{DB: db}
	ticketRepo := repositories.TicketRepository{DB: db}

	promoSvc := services.PromoService{PromoRepo: promoRepo}
	pricingSvc := services.PricingService{Promo: promoSvc}
	ticketSvc := services.TicketService{TicketRepo: ticketRepo, BookingRepo: bookingRepo}
	docsSvc := services.DocsService{}
	mailSvc := services.MailService{APIKey: env.ResendAPIKey, From: env.MailFrom}

	bookingSvc := services.BookingService{
		RouteRepo:   routeRepo,
		BookingRepo: bookingRepo,
		PromoRepo:   promoRepo,
		Pricing:     pricingSvc,
		Tickets:     ticketSvc,
		Payments:    stripe,
		Deliver: func(t models.Ticket, b models.Booking) {
			pdf, filename, err := docsSvc.BuildTicketPDF(t)
			if err != nil {
				utils.LogEvent("", "delivery", "render", "booking_ref="+b.Ref+" error: "+err.Error())
				return
			}
			if err := mailSvc.SendTicket(b.Email, t, pdf, filename); err != nil {
				utils.LogEvent("", "delivery", "email", "booking_ref="+b.Ref+" error: "+err.Error())
			}
		},
	}

	handler := h.Handler{
		Env:      env,
		Bookings: bookingSvc,
		Tickets:  ticketSvc,
		Pricing:  pricingSvc,
		Promos:   promoSvc,
		Routes:   services.RouteAdminService{RouteRepo: routeRepo},
		Stripe:   stripe,
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     env.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", h.Health)
		apiGroup.GET("/db-check", h.DBCheck)

		apiGroup.GET("/cities", handler.Cities)
		apiGroup.GET("/trips/search", handler.SearchTrips)

		apiGroup.POST("/promos/validate", handler.ValidatePromo)

		bookings := apiGroup.Group("/bookings")
		bookings.POST("", handler.CreateBooking)
		bookings.GET("/:ref", handler.GetBooking)
		bookings.POST("/:ref/payment-sheet", handler.CreatePaymentSheet)

		apiGroup.POST("/payments/webhook", handler.Webhook)

		tickets := apiGroup.Group("/tickets")
		tickets.GET("/:ref", handler.GetTicket)
		tickets.POST("/validate", handler.ValidateTicket)
		tickets.POST("/use", handler.UseTicket)

		apiGroup.POST("/auth/login", handler.Login)

		admin := apiGroup.Group("/admin", middleware.RequireAdmin(env.JWTSecret))
		{
			admin.GET("/routes", handler.ListRoutes)
			admin.POST("/routes", handler.CreateRoute)
			admin.GET("/routes/:id", handler.GetRoute)
			admin.PUT("/routes/:id", handler.UpdateRoute)
			admin.DELETE("/routes/:id", handler.DeleteRoute)
			admin.POST("/routes/:id/closed-dates", handler.AddClosedDate)
			admin.DELETE("/routes/:id/closed-dates", handler.RemoveClosedDate)

			admin.GET("/promos", handler.ListPromos)
			admin.POST("/promos", handler.CreatePromo)
		}
	}

	return r
}
