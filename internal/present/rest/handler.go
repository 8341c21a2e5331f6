package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/labstack/echo/v4"

	"github.com/stashit/stashit/internal/domain"
	"github.com/stashit/stashit/internal/present/rest/middleware"
	"github.com/stashit/stashit/internal/service"
	"github.com/stashit/stashit/internal/usecase"
)

const sharedStashCacheTTL = 60 // seconds

type Handler struct {
	auth        *service.AuthService
	content     *usecase.ContentUsecase
	search      *usecase.SearchUsecase
	cache       *memcache.Client // nil disables shared stash caching
	environment string
}

func NewHandler(
	auth *service.AuthService,
	content *usecase.ContentUsecase,
	search *usecase.SearchUsecase,
	cache *memcache.Client,
	environment string,
) *Handler {
	return &Handler{
		auth:        auth,
		content:     content,
		search:      search,
		cache:       cache,
		environment: environment,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, auth *middleware.AuthMiddleware, limiter *middleware.RateLimiter) {
	e.GET("/health", h.handleHealth)

	api := e.Group("/api/v1", limiter.Limit)
	api.POST("/signup", h.handleSignup)
	api.POST("/signin", h.handleSignin)
	api.GET("/stash/:shareLink", h.handleSharedStash)

	protected := api.Group("", auth.IdentifyIdentity, auth.RequireAuth)
	protected.POST("/content", h.handleCreateContent)
	protected.GET("/content", h.handleListContent)
	protected.DELETE("/delete/:contentId", h.handleDeleteContent)
	protected.POST("/stash", h.handleStash)
	protected.POST("/search", h.handleSearch)
}

func (h *Handler) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":      "ok",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": h.environment,
	})
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func validCredentials(req credentialsRequest) bool {
	return len(req.Username) >= 4 && len(req.Username) <= 25 &&
		len(req.Password) >= 6 && len(req.Password) <= 25
}

func (h *Handler) handleSignup(c echo.Context) error {
	ctx := c.Request().Context()

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	if !validCredentials(req) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Username must be 4-25 characters and password 6-25 characters"})
	}

	_, err := h.auth.Signup(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			return c.JSON(http.StatusLengthRequired, echo.Map{"message": "Username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "User successfully created"})
}

func (h *Handler) handleSignin(c echo.Context) error {
	ctx := c.Request().Context()

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	if !validCredentials(req) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Username must be 4-25 characters and password 6-25 characters"})
	}

	token, err := h.auth.Signin(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusForbidden, echo.Map{"message": "Incorrect credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

type createContentRequest struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Type  string `json:"type"`
}

func (h *Handler) handleCreateContent(c echo.Context) error {
	ctx := c.Request().Context()

	var req createContentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	if req.Title == "" || req.Link == "" || req.Type == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "title, link and type are required"})
	}

	_, err := h.content.Create(ctx, usecase.ContentInput{
		Title:   req.Title,
		Link:    req.Link,
		Type:    req.Type,
		OwnerID: middleware.RequesterID(c),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Content added successfully"})
}

func (h *Handler) handleListContent(c echo.Context) error {
	ctx := c.Request().Context()

	content, err := h.content.List(ctx, middleware.RequesterID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"content": content})
}

func (h *Handler) handleDeleteContent(c echo.Context) error {
	ctx := c.Request().Context()

	deleted, err := h.content.Delete(ctx, c.Param("contentId"), middleware.RequesterID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Content not found or not authorized"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Content deleted successfully"})
}

type stashRequest struct {
	Share bool `json:"share"`
}

func (h *Handler) handleStash(c echo.Context) error {
	ctx := c.Request().Context()

	var req stashRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}

	ownerID := middleware.RequesterID(c)

	if req.Share {
		hash, err := h.content.EnableShare(ctx, ownerID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
		}
		return c.JSON(http.StatusOK, echo.Map{"hash": hash})
	}

	if err := h.content.DisableShare(ctx, ownerID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Removed link"})
}

func (h *Handler) handleSharedStash(c echo.Context) error {
	ctx := c.Request().Context()
	hash := c.Param("shareLink")

	if h.cache != nil {
		if item, err := h.cache.Get("stash:" + hash); err == nil {
			return c.JSONBlob(http.StatusOK, item.Value)
		}
	}

	stash, err := h.content.ResolveShare(ctx, hash)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Invalid share link"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}

	if h.cache != nil {
		if payload, err := json.Marshal(stash); err == nil {
			h.cache.Set(&memcache.Item{
				Key:        "stash:" + hash,
				Value:      payload,
				Expiration: sharedStashCacheTTL,
			})
		}
	}

	return c.JSON(http.StatusOK, stash)
}

type searchRequest struct {
	Query string `json:"query"`
}

func (h *Handler) handleSearch(c echo.Context) error {
	ctx := c.Request().Context()

	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	if len(req.Query) < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "query is required"})
	}

	response, err := h.search.Search(ctx, req.Query, middleware.RequesterID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}

	return c.JSON(http.StatusOK, response)
}
