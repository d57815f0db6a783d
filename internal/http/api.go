package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"diet-ledger/internal/domain"
	"diet-ledger/internal/service"
)

// SessionCookie is the cookie carrying the opaque session token.
const SessionCookie = "sessionId"

const userContextKey = "currentUser"

// Handler wires HTTP routes to domain services.
type Handler struct {
	identity      service.IdentityService
	meals         service.MealService
	sessionMaxAge int
}

func NewHandler(identity service.IdentityService, meals service.MealService, sessionMaxAge int) *Handler {
	return &Handler{
		identity:      identity,
		meals:         meals,
		sessionMaxAge: sessionMaxAge,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	users := router.Group("/users")
	{
		users.POST("", h.register)
		users.GET("", h.requireSession(), h.getCaller)
	}

	meals := router.Group("/meals")
	meals.Use(h.requireSession())
	{
		meals.POST("", h.createMeal)
		meals.GET("", h.listMeals)
		meals.GET("/summary", h.mealSummary)
		meals.GET("/:id", h.getMeal)
		meals.PUT("/:id", h.updateMeal)
		meals.DELETE("/:id", h.deleteMeal)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requireSession resolves the session cookie to a user and attaches it to the
// request context. Routes behind it never run for an unknown session.
func (h *Handler) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		user, err := h.identity.ResolveSession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	return c.MustGet(userContextKey).(*domain.User)
}

type registerRequest struct {
	Name  string `json:"name" binding:"required,min=4"`
	Email string `json:"email" binding:"required,email"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.identity.Register(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.SetCookie(SessionCookie, user.SessionID, h.sessionMaxAge, "/", "", false, true)
	c.Status(http.StatusCreated)
}

func (h *Handler) getCaller(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": userToResponse(currentUser(c))})
}

type createMealRequest struct {
	Name        string `json:"name" binding:"required,min=4"`
	Description string `json:"description" binding:"required,min=6"`
	Date        int64  `json:"date" binding:"required"`
	IsOnDiet    *bool  `json:"is_on_diet" binding:"required"`
}

func (h *Handler) createMeal(c *gin.Context) {
	var req createMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	if _, err := h.meals.Create(c.Request.Context(), user.ID, req.Name, req.Description, req.Date, *req.IsOnDiet); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusCreated)
}

func (h *Handler) listMeals(c *gin.Context) {
	user := currentUser(c)
	meals, err := h.meals.List(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]MealResponse, len(meals))
	for i := range meals {
		resp[i] = mealToResponse(meals[i])
	}
	c.JSON(http.StatusOK, gin.H{"meals": resp})
}

func (h *Handler) getMeal(c *gin.Context) {
	id, ok := mealID(c)
	if !ok {
		return
	}

	user := currentUser(c)
	meal, err := h.meals.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, domain.ErrMealNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"meal": mealToResponse(*meal)})
}

type updateMealRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=4"`
	Description *string `json:"description" binding:"omitempty,min=6"`
	Date        *int64  `json:"date"`
	IsOnDiet    *bool   `json:"is_on_diet"`
}

func (h *Handler) updateMeal(c *gin.Context) {
	id, ok := mealID(c)
	if !ok {
		return
	}

	var req updateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	err := h.meals.Update(c.Request.Context(), user.ID, id, domain.MealUpdate{
		Name:        req.Name,
		Description: req.Description,
		Date:        req.Date,
		IsOnDiet:    req.IsOnDiet,
	})
	if err != nil {
		if errors.Is(err, domain.ErrMealNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteMeal(c *gin.Context) {
	user := currentUser(c)
	err := h.meals.Delete(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrMealNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) mealSummary(c *gin.Context) {
	user := currentUser(c)
	summary, err := h.meals.Summarize(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, SummaryResponse{
		TotalMeals:               summary.TotalMeals,
		TotalMealsOnDiet:         summary.TotalMealsOnDiet,
		TotalMealsNotOnDiet:      summary.TotalMealsNotOnDiet,
		TotalMealsOnDietSequence: summary.TotalMealsOnDietSequence,
	})
}

// mealID validates the :id path parameter. Meal ids are UUIDs, so anything
// else is rejected before touching storage.
func mealID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal id"})
		return "", false
	}
	return id, true
}
