package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/avolkov-dev/recipehub/internal/models"
	"github.com/avolkov-dev/recipehub/internal/repositories"
)

func TestSignup(t *testing.T) {
	db := initTestDB(t)
	h := NewAuthHandler(repositories.NewPostgresUserRepository(db), nil, "testsecret")
	e := echo.New()

	body := map[string]string{
		"username":   "alice",
		"email":      "alice@example.com",
		"first_name": "Alice",
		"last_name":  "Smith",
		"password":   "verysecret",
	}

	c, rec := newTestContext(t, e, http.MethodPost, "/auth/signup", body)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Token string      `json:"token"`
		User  UserProfile `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "alice", resp.User.Username)

	var stored models.User
	require.NoError(t, db.First(&stored, resp.User.ID).Error)
	require.NotEqual(t, "verysecret", stored.Password)
}

func TestSignupDuplicateEmail(t *testing.T) {
	db := initTestDB(t)
	h := NewAuthHandler(repositories.NewPostgresUserRepository(db), nil, "testsecret")
	e := echo.New()

	createTestUser(t, db, "alice")

	body := map[string]string{
		"username":   "alice2",
		"email":      "alice@example.com",
		"first_name": "Alice",
		"last_name":  "Smith",
		"password":   "verysecret",
	}

	c, _ := newTestContext(t, e, http.MethodPost, "/auth/signup", body)
	requireHTTPError(t, h.Signup(c), http.StatusConflict)
}

func TestSignupShortPassword(t *testing.T) {
	db := initTestDB(t)
	h := NewAuthHandler(repositories.NewPostgresUserRepository(db), nil, "testsecret")
	e := echo.New()

	body := map[string]string{
		"username":   "alice",
		"email":      "alice@example.com",
		"first_name": "Alice",
		"last_name":  "Smith",
		"password":   "short",
	}

	c, _ := newTestContext(t, e, http.MethodPost, "/auth/signup", body)
	requireHTTPError(t, h.Signup(c), http.StatusBadRequest)
}

func TestSignIn(t *testing.T) {
	db := initTestDB(t)
	h := NewAuthHandler(repositories.NewPostgresUserRepository(db), nil, "testsecret")
	e := echo.New()

	hashed, err := bcrypt.GenerateFromPassword([]byte("verysecret"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &models.User{
		Username:  "alice",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Smith",
		Password:  string(hashed),
	}
	require.NoError(t, db.Create(user).Error)

	c, rec := newTestContext(t, e, http.MethodPost, "/auth/signin", map[string]string{
		"email":    "alice@example.com",
		"password": "verysecret",
	})
	require.NoError(t, h.SignIn(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])

	cBad, _ := newTestContext(t, e, http.MethodPost, "/auth/signin", map[string]string{
		"email":    "alice@example.com",
		"password": "wrongpass",
	})
	requireHTTPError(t, h.SignIn(cBad), http.StatusUnauthorized)

	cUnknown, _ := newTestContext(t, e, http.MethodPost, "/auth/signin", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever",
	})
	requireHTTPError(t, h.SignIn(cUnknown), http.StatusUnauthorized)
}
