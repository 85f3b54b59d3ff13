package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"metria/internal/auth"
	"metria/internal/models"
	"metria/internal/service/restaurant"
)

// MaitreService is the conversational surface the chat endpoints depend on.
type MaitreService interface {
	Chat(ctx context.Context, sessionID, message string, menu []models.MenuItem, restaurantName string) string
	ClearSession(sessionID string)
}

// Handler wires HTTP routes to the restaurant service and the AI maître.
type Handler struct {
	restaurant    *restaurant.Service
	maitre        MaitreService
	auth          *auth.Service
	uploadDir     string
	publicBaseURL string
}

// NewHandler constructs a Handler instance.
func NewHandler(restaurantService *restaurant.Service, maitreService MaitreService, authService *auth.Service, uploadDir, publicBaseURL string) *Handler {
	return &Handler{
		restaurant:    restaurantService,
		maitre:        maitreService,
		auth:          authService,
		uploadDir:     uploadDir,
		publicBaseURL: publicBaseURL,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.health)

	api := router.Group("/api")
	api.GET("/session/by-id/:sessionId", h.getSessionByID)
	api.GET("/session/:restaurantId/:tableId", h.getOrCreateSession)
	api.PUT("/session/:sessionId/status", h.updateSessionStatus)
	api.POST("/orders", h.createOrder)
	api.GET("/orders/:orderId", h.getOrder)
	api.POST("/payment/pix", h.simulatePixPayment)
	api.POST("/call-waiter", h.callWaiter)
	api.POST("/ai/chat", h.aiChat)
	api.DELETE("/ai/session/:sessionId", h.clearAISession)

	api.POST("/staff/register", h.registerStaff)
	api.POST("/staff/login", h.loginStaff)

	authMW := h.auth.Middleware()
	staff := api.Group("")
	staff.Use(authMW, h.auth.CSRFMiddleware())
	staff.POST("/staff/logout", h.logoutStaff)

	staff.GET("/kitchen/orders", h.listKitchenOrders)
	staff.PUT("/kitchen/orders/:id/status", h.updateOrderStatus)
	staff.GET("/kitchen/waiter-calls", h.listWaiterCalls)
	staff.PUT("/kitchen/waiter-calls/:id/resolve", h.resolveWaiterCall)

	admin := staff.Group("/admin")
	admin.GET("/restaurant", h.getRestaurant)
	admin.PUT("/restaurant/ai-prompt", h.updateAIPrompt)
	admin.GET("/tables", h.listTables)
	admin.POST("/tables/generate", h.generateTables)
	admin.POST("/tables/:tableId/close-session", h.closeTableSession)
	admin.GET("/orders", h.listAdminOrders)
	admin.GET("/categories", h.listCategories)
	admin.POST("/categories", h.createCategory)
	admin.PUT("/categories/:id", h.updateCategory)
	admin.DELETE("/categories/:id", h.deleteCategory)
	admin.GET("/menu-items", h.listMenuItems)
	admin.POST("/menu-items", h.createMenuItem)
	admin.PUT("/menu-items/:id", h.updateMenuItem)
	admin.DELETE("/menu-items/:id", h.deleteMenuItem)
	admin.POST("/upload-image", h.uploadImage)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Session endpoints

func (h *Handler) getOrCreateSession(c *gin.Context) {
	restaurantID := c.Param("restaurantId")
	tableID := c.Param("tableId")
	token := c.Query("token")

	session, err := h.restaurant.GetOrCreateSession(c.Request.Context(), restaurantID, tableID, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
			return
		}
		if errors.Is(err, restaurant.ErrInvalidToken) {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid session token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.respondSessionWithMenu(c, session)
}

func (h *Handler) getSessionByID(c *gin.Context) {
	session, err := h.restaurant.GetSessionByID(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.respondSessionWithMenu(c, session)
}

func (h *Handler) respondSessionWithMenu(c *gin.Context, session *models.TableSession) {
	menu, err := h.restaurant.ListMenuItems(c.Request.Context(), true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if menu == nil {
		menu = []models.MenuItem{}
	}
	c.JSON(http.StatusOK, gin.H{
		"session": session,
		"menu":    menu,
	})
}

func (h *Handler) updateSessionStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	status := models.SessionStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	session, err := h.restaurant.UpdateSessionStatus(c.Request.Context(), c.Param("sessionId"), status)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		case errors.Is(err, restaurant.ErrSessionClosed), errors.Is(err, restaurant.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// Order endpoints

func (h *Handler) createOrder(c *gin.Context) {
	var req struct {
		SessionID string                      `json:"sessionId"`
		Items     []restaurant.OrderItemInput `json:"items"`
		IsExtra   bool                        `json:"isExtra"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return
	}
	order, err := h.restaurant.CreateOrder(c.Request.Context(), req.SessionID, req.Items, req.IsExtra)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		case errors.Is(err, restaurant.ErrSessionClosed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) getOrder(c *gin.Context) {
	order, err := h.restaurant.GetOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) simulatePixPayment(c *gin.Context) {
	var req struct {
		SessionID string  `json:"sessionId"`
		Amount    float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return
	}
	paymentID, err := h.restaurant.SimulatePixPayment(c.Request.Context(), req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		case errors.Is(err, restaurant.ErrSessionClosed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"paymentId": paymentID,
	})
}

// Waiter call endpoint

func (h *Handler) callWaiter(c *gin.Context) {
	var req struct {
		SessionID string `json:"sessionId"`
		Message   string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return
	}
	call, err := h.restaurant.CreateWaiterCall(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		case errors.Is(err, restaurant.ErrSessionClosed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, call)
}

// AI maître endpoints

func (h *Handler) aiChat(c *gin.Context) {
	var req struct {
		SessionID    string `json:"sessionId"`
		Message      string `json:"message"`
		RestaurantID string `json:"restaurantId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.SessionID) == "" || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId and message are required"})
		return
	}

	// The menu and venue name feed the prompt. Either failing degrades the
	// turn, never the endpoint.
	menu, err := h.restaurant.ListMenuItems(c.Request.Context(), true)
	if err != nil {
		menu = nil
	}
	var restaurantName string
	if r, err := h.restaurant.GetRestaurant(c.Request.Context()); err == nil {
		restaurantName = r.Name
	}

	reply := h.maitre.Chat(c.Request.Context(), req.SessionID, req.Message, menu, restaurantName)
	c.JSON(http.StatusOK, gin.H{
		"response":  reply,
		"sessionId": req.SessionID,
	})
}

func (h *Handler) clearAISession(c *gin.Context) {
	h.maitre.ClearSession(c.Param("sessionId"))
	c.JSON(http.StatusOK, gin.H{"success": true})
}
