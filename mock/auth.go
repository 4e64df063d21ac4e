package mock

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/granddizzy/orders/schema"
)

const userIdKey = "userId"

func (s *Server) login(c *gin.Context) {
	var credentials schema.Credentials
	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid payload"})
		return
	}
	s.mu.RLock()
	acc, ok := s.accounts[strings.ToLower(credentials.Email)]
	s.mu.RUnlock()
	if !ok || acc.password != credentials.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	user, _ := s.Users.get(acc.userId)
	token, err := s.issueToken(acc.userId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, schema.LoginResult{
		Token: token,
		User:  &schema.UserProfile{Id: user.Id, Name: user.Name, Email: user.Email, Roles: user.Roles},
	})
}

func (s *Server) register(c *gin.Context) {
	var registration schema.Registration
	if err := c.ShouldBindJSON(&registration); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid payload"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(registration.Email))
	if email == "" || registration.Password == "" || registration.Password != registration.PasswordConfirmation {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid registration"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[email]; exists {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "The email has already been taken."})
		return
	}
	user, err := s.Users.create([]byte(fmt.Sprintf(`{"name":%q,"email":%q}`, registration.Name, email)))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}
	s.accounts[email] = account{password: registration.Password, userId: user.Id}
	c.JSON(http.StatusCreated, user)
}

func (s *Server) issueToken(userId int) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": "orders-mock",
		"sub": fmt.Sprint(userId),
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}
	s.mu.RLock()
	secret := s.secret
	s.mu.RUnlock()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *Server) authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	raw := strings.TrimPrefix(header, "Bearer ")
	if header == "" || raw == header {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
		return
	}
	s.mu.RLock()
	secret := s.secret
	s.mu.RUnlock()
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
		return
	}
	subject, _ := token.Claims.GetSubject()
	c.Set(userIdKey, subject)
	c.Next()
}
