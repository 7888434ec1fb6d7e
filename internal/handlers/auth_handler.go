package handlers

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"merchant-console/internal/middleware"
	"merchant-console/internal/models"
	"merchant-console/internal/storectx"
)

// AuthBackend authenticates owners against the marketplace backend
type AuthBackend interface {
	LoginOwner(ctx context.Context, loginID, password string) (*models.OwnerLoginResponse, error)
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.SignUpResponse, error)
}

// Korean mobile numbers, dashes optional
var mobilePattern = regexp.MustCompile(`^01[016789]-?[0-9]{3,4}-?[0-9]{4}$`)

type AuthHandler struct {
	backend AuthBackend
	stores  *storectx.Context
	secret  string
	ttl     time.Duration
	logger  *logrus.Logger
}

func NewAuthHandler(backend AuthBackend, stores *storectx.Context, secret string, ttl time.Duration, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		backend: backend,
		stores:  stores,
		secret:  secret,
		ttl:     ttl,
		logger:  logger,
	}
}

// Login exchanges owner credentials for a console token
// @Summary Owner login
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	owner, err := h.backend.LoginOwner(c.Request.Context(), req.LoginID, req.Password)
	if err != nil {
		respondBackendError(c, err)
		return
	}

	ownerID := strconv.FormatInt(owner.OwnerID, 10)
	var storeID int64
	if owner.StoreID != nil {
		storeID = *owner.StoreID
		if err := h.stores.SetStoreID(c.Request.Context(), ownerID, storeID); err != nil {
			h.logger.WithError(err).WithField("owner_id", ownerID).Warn("Failed to record store id at login")
		}
	}

	token, expiresAt, err := middleware.IssueToken(h.secret, h.ttl, ownerID, storeID, owner.AccessToken)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue token")
		c.JSON(http.StatusInternalServerError, models.NewError("TOKEN_ERROR", "Failed to issue token"))
		return
	}

	h.logger.WithField("owner_id", ownerID).Info("Owner logged in")
	c.JSON(http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		Name:      owner.Name,
		StoreID:   owner.StoreID,
	})
}

// SignUp creates an account on the marketplace backend
// @Summary Sign up
// @Tags auth
// @Accept json
// @Produce json
// @Param account body models.SignUpRequest true "Account"
// @Success 201 {object} models.SuccessResponse
// @Router /auth/sign-up [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	if !strings.ContainsFunc(req.Password, unicode.IsLetter) {
		c.JSON(http.StatusBadRequest, models.NewFieldError("VALIDATION_ERROR", "Password must contain a letter", "password"))
		return
	}
	if !mobilePattern.MatchString(req.Tel) {
		c.JSON(http.StatusBadRequest, models.NewFieldError("VALIDATION_ERROR", "Invalid mobile number", "tel"))
		return
	}

	resp, err := h.backend.SignUp(c.Request.Context(), req)
	if err != nil {
		respondBackendError(c, err)
		return
	}
	if resp.CustomerID == 0 {
		c.JSON(http.StatusBadGateway, models.NewError("SIGN_UP_FAILED", "Backend did not return an account id"))
		return
	}

	h.logger.WithField("customer_id", resp.CustomerID).Info("Account signed up")
	c.JSON(http.StatusCreated, models.SuccessResponse{Success: true, Data: resp, Message: "Account created"})
}

// Logout forgets the owner's store context
// @Summary Logout
// @Tags auth
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	if err := h.stores.Clear(c.Request.Context(), ownerID); err != nil {
		h.logger.WithError(err).WithField("owner_id", ownerID).Error("Failed to clear store context")
		c.JSON(http.StatusInternalServerError, models.NewError("STORE_CONTEXT_ERROR", "Failed to clear store context"))
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: "Logged out"})
}
