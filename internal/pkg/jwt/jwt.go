package jwt

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service verifies the tokens issued by the upstream identity provider and
// mints service tokens for jobs and tests. It never issues end-user logins;
// those live in the identity system.
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	GenerateServiceToken(actorID, employeeID, departmentID string, role auth.Role, ttl time.Duration) (string, error)
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateServiceToken(actorID, employeeID, departmentID string, role auth.Role, ttl time.Duration) (string, error) {
	claims := map[string]interface{}{
		"sub":           actorID,
		"employee_id":   employeeID,
		"department_id": departmentID,
		"role":          string(role),
		"exp":           time.Now().Add(ttl).Unix(),
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}
