package fakeapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/felixgeelhaar/scribe/internal/domain"
	"github.com/felixgeelhaar/scribe/internal/errors"
)

type claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

type ctxKey struct{}

func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
}

// mustHash is for seed and test accounts, whose passwords are known to fit
func mustHash(password string) []byte {
	hash, err := hashPassword(password)
	if err != nil {
		panic(fmt.Sprintf("fakeapi: hash password: %v", err))
	}
	return hash
}

// Token issues a bearer token for userID, as login would
func (s *Server) Token(userID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.users[userID]
	if !ok {
		return ""
	}
	token, _ := s.issueLocked(acct.user)
	return token
}

func (s *Server) issueLocked(u domain.User) (string, error) {
	now := s.now()
	c := claims{
		Name: u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

func (s *Server) parse(token string) (*claims, error) {
	c := &claims{}
	_, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	return c, nil
}

// authenticate resolves the bearer token to a user or answers 401
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Unauthenticated.", nil)
			return
		}

		c, err := s.parse(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthenticated.", nil)
			return
		}
		id, err := strconv.ParseInt(c.Subject, 10, 64)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthenticated.", nil)
			return
		}

		s.mu.Lock()
		revoked := s.revoked[c.ID]
		acct, exists := s.users[id]
		s.mu.Unlock()

		if revoked || !exists {
			writeError(w, http.StatusUnauthorized, "Unauthenticated.", nil)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, session{user: acct.user, tokenID: c.ID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type session struct {
	user    domain.User
	tokenID string
}

func current(r *http.Request) session {
	sess, _ := r.Context().Value(ctxKey{}).(session)
	return sess
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	var fields errors.FieldErrors
	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		fields.Add("name", "The name field is required.")
	case utf8.RuneCountInString(name) > 255:
		fields.Add("name", "The name must not be greater than 255 characters.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case strings.TrimSpace(req.Email) == "":
		fields.Add("email", "The email field is required.")
	case !govalidator.IsEmail(strings.TrimSpace(req.Email)):
		fields.Add("email", "The email must be a valid email address.")
	case s.userByEmailLocked(req.Email) != nil:
		fields.Add("email", "The email has already been taken.")
	}

	switch {
	case req.Password == "":
		fields.Add("password", "The password field is required.")
	case utf8.RuneCountInString(req.Password) < 8:
		fields.Add("password", "The password must be at least 8 characters.")
	case req.Password != req.PasswordConfirmation:
		fields.Add("password", "The password confirmation does not match.")
	}

	var hash []byte
	if len(fields) == 0 {
		var err error
		if hash, err = hashPassword(req.Password); err != nil {
			if stderrors.Is(err, bcrypt.ErrPasswordTooLong) {
				fields.Add("password", "The password must not be greater than 72 bytes.")
			} else {
				writeError(w, http.StatusInternalServerError, "Could not store the password.", nil)
				return
			}
		}
	}

	if len(fields) > 0 {
		writeInvalid(w, fields)
		return
	}

	user := s.addUserLocked(name, strings.TrimSpace(req.Email), hash)
	token, err := s.issueLocked(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not issue token.", nil)
		return
	}
	writeData(w, http.StatusCreated, "User registered successfully", domain.AuthData{User: user, Token: token})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	var fields errors.FieldErrors
	if strings.TrimSpace(req.Email) == "" {
		fields.Add("email", "The email field is required.")
	}
	if req.Password == "" {
		fields.Add("password", "The password field is required.")
	}
	if len(fields) > 0 {
		writeInvalid(w, fields)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct := s.userByEmailLocked(req.Email)
	if acct == nil || bcrypt.CompareHashAndPassword(acct.hash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	token, err := s.issueLocked(acct.user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not issue token.", nil)
		return
	}
	writeData(w, http.StatusOK, "Login successful", domain.AuthData{User: acct.user, Token: token})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	sess := current(r)

	s.mu.Lock()
	s.revoked[sess.tokenID] = true
	s.mu.Unlock()

	writeData[any](w, http.StatusOK, "Logged out successfully", nil)
}
