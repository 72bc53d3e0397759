package handlers

import (
	"html/template"
	"net/http"
	"net/url"

	"lemburan/config"
	"lemburan/database"
	"lemburan/middleware"
	"lemburan/models"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type AuthHandler struct {
	config    *config.Config
	templates map[string]*template.Template
}

func NewAuthHandler(cfg *config.Config, templates map[string]*template.Template) *AuthHandler {
	return &AuthHandler{
		config:    cfg,
		templates: templates,
	}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Error": r.URL.Query().Get("error"),
	}
	render(w, h.templates, "login", data)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/login", "Data formulir tidak valid")
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	var user models.User
	if err := database.GetDB().WithContext(r.Context()).Where("username = ?", username).First(&user).Error; err != nil {
		redirectWithError(w, r, "/login", "Username atau password salah")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		redirectWithError(w, r, "/login", "Username atau password salah")
		return
	}

	token, err := middleware.GenerateToken(&user, h.config.JWTExpiration)
	if err != nil {
		redirectWithError(w, r, "/login", "Gagal membuat sesi")
		return
	}
	middleware.SetTokenCookie(w, token, h.config.JWTExpiration)

	if user.MustChangePassword {
		http.Redirect(w, r, "/change-password", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, landingPage(&user), http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearTokenCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) ChangePasswordPage(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	data := map[string]interface{}{
		"User":  user,
		"Error": r.URL.Query().Get("error"),
	}
	render(w, h.templates, "change-password", data)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/change-password", "Data formulir tidak valid")
		return
	}

	currentPassword := r.FormValue("current_password")
	newPassword := r.FormValue("new_password")
	confirmPassword := r.FormValue("confirm_password")

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		redirectWithError(w, r, "/change-password", "Password saat ini salah")
		return
	}

	if newPassword != confirmPassword {
		redirectWithError(w, r, "/change-password", "Konfirmasi password tidak cocok")
		return
	}

	if len(newPassword) < minPasswordLength {
		redirectWithError(w, r, "/change-password", "Password minimal 8 karakter")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		redirectWithError(w, r, "/change-password", "Gagal memproses password")
		return
	}

	user.PasswordHash = string(hashedPassword)
	user.MustChangePassword = false
	if err := database.GetDB().WithContext(r.Context()).Save(user).Error; err != nil {
		redirectWithError(w, r, "/change-password", "Gagal menyimpan password")
		return
	}

	// Regenerate token with updated user info
	token, err := middleware.GenerateToken(user, h.config.JWTExpiration)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	middleware.SetTokenCookie(w, token, h.config.JWTExpiration)

	http.Redirect(w, r, landingPage(user), http.StatusSeeOther)
}

func landingPage(user *models.User) string {
	if user.CanViewRecords() {
		return "/admin"
	}
	return "/"
}

func redirectWithError(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, path+"?error="+url.QueryEscape(msg), http.StatusSeeOther)
}

func redirectWithSuccess(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, path+"?success="+url.QueryEscape(msg), http.StatusSeeOther)
}
