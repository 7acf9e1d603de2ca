package managetoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken возвращается при некорректном или подделанном токене
	ErrInvalidToken = errors.New("managetoken: invalid token")

	// ErrTokenExpired возвращается, когда срок действия токена истёк
	ErrTokenExpired = errors.New("managetoken: token expired")
)

// Claims полезная нагрузка manage-токена
// Токен даёт клиенту доступ ровно к одной записи без полной аутентификации
type Claims struct {
	AppointmentID int64 `json:"appointmentId"`
	jwt.RegisteredClaims
}

// Issuer выпускает и проверяет подписанные manage-токены
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer создает issuer с заданным секретом и временем жизни токенов
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue выпускает токен для указанной записи
func (i *Issuer) Issue(appointmentID int64, now time.Time) (string, error) {
	claims := Claims{
		AppointmentID: appointmentID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			Subject:   fmt.Sprintf("appointment:%d", appointmentID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("%w: signing failed: %v", ErrInvalidToken, err)
	}
	return signed, nil
}

// Verify проверяет подпись и срок действия токена
// Возвращает ID записи, к которой токен даёт доступ
func (i *Issuer) Verify(tokenString string) (int64, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.AppointmentID <= 0 {
		return 0, ErrInvalidToken
	}

	return claims.AppointmentID, nil
}
