package usecase

import (
	"fmt"
	"time"

	"creator-studio/domain/model"

	"github.com/golang-jwt/jwt"
)

// SessionDuration is how long an issued session token stays valid.
const SessionDuration = 7 * 24 * time.Hour

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "creator-studio-session"

type ISession interface {
	Issue(user *model.User) (string, time.Time, error)
	Verify(tokenString string) (*model.SessionClaims, error)
}

type sessionUsecase struct {
	secretKey []byte
}

func NewSessionUsecase(secretKey string) ISession {
	return &sessionUsecase{secretKey: []byte(secretKey)}
}

func (s *sessionUsecase) Issue(user *model.User) (string, time.Time, error) {
	if len(s.secretKey) == 0 {
		return "", time.Time{}, fmt.Errorf("cannot issue session: %w", model.ErrNotConfigured)
	}
	expiresAt := time.Now().Add(SessionDuration)
	claims := model.SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		Avatar: user.Avatar,
		StandardClaims: jwt.StandardClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *sessionUsecase) Verify(tokenString string) (*model.SessionClaims, error) {
	if len(s.secretKey) == 0 {
		return nil, model.ErrUnauthenticated
	}
	claims := &model.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, model.ErrUnauthenticated
	}
	return claims, nil
}
