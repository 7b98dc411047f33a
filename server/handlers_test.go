package server_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/Yasserbhb/BeeGuardAI/server"
	"github.com/Yasserbhb/BeeGuardAI/users"
	"github.com/stretchr/testify/require"
)

func TestRegisterHandler(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodPost, server.RouteAuthRegister, map[string]string{
		"email":             "Ada@Lac.fr",
		"password":          testPassword,
		"first_name":        "Ada",
		"organisation_name": "Rucher du Lac",
		"organisation_type": "community",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, "/", cookie.Path)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	require.Equal(t, 86400, cookie.MaxAge)
	require.Len(t, cookie.Value, 64)

	res := decode[struct {
		Token string     `json:"token"`
		User  users.User `json:"user"`
	}](t, rec)
	require.Equal(t, cookie.Value, res.Token)
	require.Equal(t, "ada@lac.fr", res.User.Email)
	require.Equal(t, users.RoleAdmin, res.User.Role)
	require.NotContains(t, rec.Body.String(), "password")

	t.Run("email taken", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteAuthRegister, map[string]string{
			"email": "ada@lac.fr", "password": testPassword, "organisation_name": "Autre",
		})
		requireError(t, rec, http.StatusConflict, "Email already registered")
	})

	t.Run("organisation taken", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteAuthRegister, map[string]string{
			"email": "bob@lac.fr", "password": testPassword, "organisation_name": "Rucher du Lac",
		})
		requireError(t, rec, http.StatusConflict, "Organisation name already taken")
	})

	t.Run("weak password", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteAuthRegister, map[string]string{
			"email": "bob@lac.fr", "password": "short", "organisation_name": "Autre",
		})
		requireError(t, rec, http.StatusBadRequest, "Password must be at least 8 characters long")
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteAuthRegister, "{")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoginHandler(t *testing.T) {
	f := setupTestFixture(t)
	f.register(t, "ada@lac.fr", "Rucher du Lac")

	t.Run("success", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteAuthLogin, map[string]string{"email": "ADA@lac.fr", "password": testPassword})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		token := decode[map[string]any](t, rec)["token"].(string)

		rec = f.do(t, http.MethodGet, server.RouteAuthMe, nil, withToken(token))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteAuthLogin, map[string]string{"email": "ada@lac.fr", "password": "wrong-pass1"})
		requireError(t, rec, http.StatusUnauthorized, "Invalid email or password")
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteAuthLogin, map[string]string{"email": "nobody@lac.fr", "password": testPassword})
		requireError(t, rec, http.StatusUnauthorized, "Invalid email or password")
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteAuthLogin, map[string]string{"email": "ada@lac.fr"})
		requireError(t, rec, http.StatusBadRequest, "Email and password are required")
	})
}

func TestLogoutHandler(t *testing.T) {
	f := setupTestFixture(t)
	admin := f.register(t, "ada@lac.fr", "Rucher du Lac")

	t.Run("with cookie", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteAuthLogout, nil, withCookie(admin.token))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, true, decode[map[string]bool](t, rec)["success"])

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		require.Equal(t, -1, cookies[0].MaxAge)

		rec = f.do(t, http.MethodGet, server.RouteAuthMe, nil, withToken(admin.token))
		requireError(t, rec, http.StatusUnauthorized, "Invalid or expired session")
	})

	t.Run("without session", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteAuthLogout, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("twice", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteAuthLogout, nil, withToken(admin.token))
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestUserAdministration(t *testing.T) {
	f := setupTestFixture(t)
	admin := f.register(t, "ada@lac.fr", "Rucher du Lac")
	member := f.member(t, admin, "olga@lac.fr", users.RoleObserver)
	rolePath := fmt.Sprintf("/api/users/%d/role", member.user.ID)

	t.Run("list", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, server.RouteUsers, nil, withToken(admin.token))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, decode[[]users.User](t, rec), 2)
	})

	t.Run("create defaults to observer", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteUsers, map[string]string{"email": "new@lac.fr", "password": testPassword}, withToken(admin.token))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		user := decode[users.User](t, rec)
		require.Equal(t, users.RoleObserver, user.Role)
		require.Equal(t, admin.user.OrgID, user.OrgID)
	})

	t.Run("create duplicate", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, server.RouteUsers, map[string]string{"email": "olga@lac.fr", "password": testPassword}, withToken(admin.token))
		requireError(t, rec, http.StatusConflict, "Email already registered")
	})

	t.Run("invalid role", func(t *testing.T) {
		rec := f.do(t, http.MethodPut, rolePath, map[string]string{"role": "owner"}, withToken(admin.token))
		requireError(t, rec, http.StatusBadRequest, "Role must be admin, manager or observer")
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := f.do(t, http.MethodPut, "/api/users/9999/role", map[string]string{"role": "manager"}, withToken(admin.token))
		requireError(t, rec, http.StatusNotFound, "User not found")
	})

	t.Run("self demotion", func(t *testing.T) {
		rec := f.do(t, http.MethodPut, fmt.Sprintf("/api/users/%d/role", admin.user.ID), map[string]string{"role": "manager"}, withToken(admin.token))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("role change revokes sessions", func(t *testing.T) {
		rec := f.do(t, http.MethodPut, rolePath, map[string]string{"role": "manager"}, withToken(admin.token))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.Equal(t, users.RoleManager, decode[users.User](t, rec).Role)

		rec = f.do(t, http.MethodGet, server.RouteAuthMe, nil, withToken(member.token))
		requireError(t, rec, http.StatusUnauthorized, "Invalid or expired session")

		rec = f.do(t, http.MethodPost, server.RouteAuthLogin, map[string]string{"email": "olga@lac.fr", "password": testPassword})
		require.Equal(t, http.StatusOK, rec.Code)
		token := decode[map[string]any](t, rec)["token"].(string)

		rec = f.do(t, http.MethodPost, server.RouteHives, map[string]string{"name": "Ruche M"}, withToken(token))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})
}
