package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api/metrics"
	"github.com/csemotors/dealership/internal/api/middleware"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

const (
	LoginPath      = "/account/login"
	ManagementPath = "/account/"

	msgBadCredentials  = "Please check your credentials and try again."
	msgLoginFailed     = "Sorry, we could not log you in right now. Please try again."
	msgRegisterFailed  = "Sorry, the registration failed."
	msgUpdateFailed    = "Sorry, the update failed."
	msgUpdated         = "Account information updated successfully."
	msgInvalidAccount  = "Invalid account ID."
	msgAccountNotFound = "Account not found."
	msgPasswordUpdated = "Password updated successfully."
	msgPasswordFailed  = "Error updating password."
)

// CookieConfig describes the credential cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

type AccountHandler struct {
	auth   ports.AuthService
	cookie CookieConfig
	log    zerolog.Logger
}

func NewAccountHandler(auth ports.AuthService, cookie CookieConfig, log zerolog.Logger) *AccountHandler {
	if cookie.Name == "" {
		cookie.Name = "jwt"
	}
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = time.Hour
	}
	return &AccountHandler{auth: auth, cookie: cookie, log: log}
}

type loginForm struct {
	Email    string `form:"account_email"    validate:"required,email,max=255"`
	Password string `form:"account_password" validate:"required,max=72"`
}

func (loginForm) FieldMessages() map[string]string {
	return map[string]string{
		"account_email":    "A valid email is required.",
		"account_password": "Password is required.",
	}
}

type registerForm struct {
	FirstName string `form:"account_firstname" validate:"required,max=50"`
	LastName  string `form:"account_lastname"  validate:"required,max=50"`
	Email     string `form:"account_email"     validate:"required,email,max=255"`
	Password  string `form:"account_password"  validate:"required,strongpassword,maxbytes=72"`
}

func (registerForm) FieldMessages() map[string]string {
	return map[string]string{
		"account_firstname": "Please provide a first name.",
		"account_lastname":  "Please provide a last name.",
		"account_email":     "A valid email is required.",
		"account_password":  "Password does not meet requirements.",
	}
}

type profileForm struct {
	AccountID string `form:"account_id"`
	FirstName string `form:"account_firstname" validate:"required,max=50"`
	LastName  string `form:"account_lastname"  validate:"required,max=50"`
	Email     string `form:"account_email"     validate:"required,email,max=255"`
}

func (profileForm) FieldMessages() map[string]string {
	return map[string]string{
		"account_firstname": "First name is required.",
		"account_lastname":  "Last name is required.",
		"account_email":     "A valid email is required.",
	}
}

type passwordForm struct {
	AccountID string `form:"account_id"`
	Password  string `form:"account_password" validate:"required,strongpassword,maxbytes=72"`
}

func (passwordForm) FieldMessages() map[string]string {
	return map[string]string{
		"account_password": "Password must be at least 12 characters and include uppercase, number, and special character.",
	}
}

// LoginView renders the login form.
func (h *AccountHandler) LoginView(c echo.Context) error {
	return view(c, http.StatusOK, "account/login", echo.Map{"title": "Login"})
}

// RegisterView renders the registration form.
func (h *AccountHandler) RegisterView(c echo.Context) error {
	return view(c, http.StatusOK, "account/register", echo.Map{"title": "Register"})
}

// Register creates a client account and sends the caller to the login form.
// Validation failures re-render the form with everything but the password.
func (h *AccountHandler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.FirstName = strings.TrimSpace(form.FirstName)
	form.LastName = strings.TrimSpace(form.LastName)
	form.Email = strings.TrimSpace(form.Email)

	sticky := echo.Map{
		"title":             "Register",
		"account_firstname": form.FirstName,
		"account_lastname":  form.LastName,
		"account_email":     form.Email,
	}

	if err := c.Validate(&form); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("validation_error").Inc()
		return formError(c, "account/register", sticky, err)
	}

	account, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Password:  form.Password,
	})
	if err != nil {
		var fe domain.FieldErrors
		switch {
		case errors.As(err, &fe):
			metrics.RegistrationsTotal.WithLabelValues("validation_error").Inc()
			return formError(c, "account/register", sticky, fe)
		case errors.Is(err, domain.ErrAccountExists):
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			addNotice(c, msgRegisterFailed)
			return view(c, http.StatusConflict, "account/register", sticky)
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		h.log.Error().Err(err).Msg("registration failed")
		addNotice(c, msgRegisterFailed)
		return view(c, http.StatusInternalServerError, "account/register", sticky)
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	addNotice(c, fmt.Sprintf("Congratulations, you're registered %s. Please log in.", account.FirstName))
	return seeOther(c, LoginPath)
}

// Login checks credentials, sets the credential cookie and sends the caller
// to account management. Unknown email and wrong password render the same
// response.
func (h *AccountHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Email = strings.TrimSpace(form.Email)
	sticky := echo.Map{"title": "Login", "account_email": form.Email}

	if err := c.Validate(&form); err != nil {
		metrics.LoginsTotal.WithLabelValues("validation_error").Inc()
		return formError(c, "account/login", sticky, err)
	}

	sess, err := h.auth.Login(c.Request().Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			addNotice(c, msgBadCredentials)
			return view(c, http.StatusBadRequest, "account/login", sticky)
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		h.log.Error().Err(err).Msg("login failed")
		addNotice(c, msgLoginFailed)
		return view(c, http.StatusInternalServerError, "account/login", sticky)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.SetCookie(h.credentialCookie(sess.Token))
	return seeOther(c, ManagementPath)
}

// Logout revokes the token, clears the credential cookie and the notice
// session. It succeeds without an active session.
func (h *AccountHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(h.cookie.Name); err == nil && cookie.Value != "" {
		if err := h.auth.Logout(c.Request().Context(), cookie.Value); err != nil {
			h.log.Warn().Err(err).Msg("token revocation failed")
		}
	}

	c.SetCookie(h.expiredCookie())
	clearSession(c)
	middleware.SetIdentity(c, domain.Anonymous)
	return seeOther(c, "/")
}

// Management renders the account landing page for the logged-in caller.
func (h *AccountHandler) Management(c echo.Context) error {
	id := middleware.IdentityOf(c)
	account, err := h.auth.Account(c.Request().Context(), id.AccountID)
	if err != nil {
		return fmt.Errorf("account management: %w", err)
	}
	return h.management(c, http.StatusOK, account)
}

// UpdateView renders the profile and password forms.
func (h *AccountHandler) UpdateView(c echo.Context) error {
	accountID, ok := parseID(c.Param("account_id"))
	if !ok {
		addNotice(c, msgInvalidAccount)
		return seeOther(c, ManagementPath)
	}
	if err := ownerOrAdmin(c, accountID); err != nil {
		return err
	}

	account, err := h.auth.Account(c.Request().Context(), accountID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		addNotice(c, msgAccountNotFound)
		return seeOther(c, ManagementPath)
	}
	if err != nil {
		return fmt.Errorf("update view: %w", err)
	}
	return h.updateForm(c, http.StatusOK, account, nil)
}

// UpdateProfile saves name and email. The email must not belong to another
// account.
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	var form profileForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	accountID, ok := parseID(form.AccountID)
	if !ok {
		addNotice(c, msgInvalidAccount)
		return seeOther(c, ManagementPath)
	}
	if err := ownerOrAdmin(c, accountID); err != nil {
		return err
	}

	form.FirstName = strings.TrimSpace(form.FirstName)
	form.LastName = strings.TrimSpace(form.LastName)
	form.Email = strings.TrimSpace(form.Email)
	sticky := &domain.Account{ID: accountID, FirstName: form.FirstName, LastName: form.LastName, Email: form.Email}

	if err := c.Validate(&form); err != nil {
		return h.updateFormError(c, sticky, err)
	}

	account, err := h.auth.UpdateProfile(c.Request().Context(), ports.UpdateProfileInput{
		AccountID: accountID,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
	})
	if err != nil {
		var fe domain.FieldErrors
		if errors.As(err, &fe) {
			return h.updateFormError(c, sticky, fe)
		}
		h.log.Error().Err(err).Int64("account_id", accountID).Msg("profile update failed")
		addNotice(c, msgUpdateFailed)
		return seeOther(c, updatePath(accountID))
	}

	addNotice(c, msgUpdated)
	return h.management(c, http.StatusOK, account)
}

// UpdatePassword stores a new password. A missing or non-numeric account id
// is rejected before any store access.
func (h *AccountHandler) UpdatePassword(c echo.Context) error {
	var form passwordForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	accountID, ok := parseID(form.AccountID)
	if !ok {
		addNotice(c, msgInvalidAccount)
		return seeOther(c, ManagementPath)
	}
	if err := ownerOrAdmin(c, accountID); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := c.Validate(&form); err != nil {
		account, lookupErr := h.auth.Account(ctx, accountID)
		if lookupErr != nil {
			addNotice(c, msgAccountNotFound)
			return seeOther(c, ManagementPath)
		}
		return h.updateFormError(c, account, err)
	}

	account, err := h.auth.UpdatePassword(ctx, accountID, form.Password)
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		addNotice(c, msgAccountNotFound)
		return seeOther(c, ManagementPath)
	case err != nil:
		h.log.Error().Err(err).Int64("account_id", accountID).Msg("password update failed")
		addNotice(c, msgPasswordFailed)
		return seeOther(c, updatePath(accountID))
	}

	addNotice(c, msgPasswordUpdated)
	return h.management(c, http.StatusOK, account)
}

func (h *AccountHandler) management(c echo.Context, status int, account *domain.Account) error {
	return view(c, status, "account/management", echo.Map{
		"title":   "Account Management",
		"account": account,
	})
}

func (h *AccountHandler) updateForm(c echo.Context, status int, account *domain.Account, errs domain.FieldErrors) error {
	return view(c, status, "account/update", echo.Map{
		"title":   "Update Account Information",
		"account": account,
		"errors":  errs,
	})
}

func (h *AccountHandler) updateFormError(c echo.Context, account *domain.Account, err error) error {
	var fe domain.FieldErrors
	if !errors.As(err, &fe) {
		return err
	}
	return h.updateForm(c, http.StatusBadRequest, account, fe)
}

func (h *AccountHandler) credentialCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AccountHandler) expiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func updatePath(accountID int64) string {
	return fmt.Sprintf("/account/update/%d", accountID)
}
