package service

import (
	"crypto/subtle"
	"errors"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"reviewhub/internal/config"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/mail"
)

var (
	ErrInvalidUsername         = errors.New("username contains forbidden characters or is reserved")
	ErrUsernameTaken           = errors.New("username already in use")
	ErrEmailTaken              = errors.New("email already in use")
	ErrUserNotFound            = errors.New("user not found")
	ErrInvalidConfirmationCode = errors.New("invalid confirmation code")
	ErrInvalidToken            = errors.New("invalid token")
	ErrMailDelivery            = errors.New("failed to deliver confirmation email")
)

// usernamePattern matches the allowed account names: unicode letters and
// digits plus _.@+- ("me" is additionally reserved for the self-service
// endpoint).
var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// ValidUsername reports whether a username is acceptable for registration.
func ValidUsername(username string) bool {
	return username != "me" && usernamePattern.MatchString(username)
}

// Claims is the payload of issued bearer tokens.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Signup(username, email string) (*models.User, error)
	ObtainToken(username, confirmationCode string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo       repository.UserRepository
	mailer         mail.Mailer
	jwtSecret      string
	accessTokenTTL time.Duration
}

func NewAuthService(userRepo repository.UserRepository, mailer mail.Mailer, cfg *config.Config) AuthService {
	return &authService{
		userRepo:       userRepo,
		mailer:         mailer,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
	}
}

// Signup registers the (username, email) identity if it does not already
// exist, then unconditionally regenerates the confirmation code and emails
// it. Calling it again with the same pair is how a user requests a new code.
func (s *authService) Signup(username, email string) (*models.User, error) {
	if !ValidUsername(username) {
		return nil, ErrInvalidUsername
	}

	user, err := s.userRepo.FindByUsernameAndEmail(username, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		// The pair is new, but either half may collide with another account.
		if _, err := s.userRepo.FindByUsername(username); err == nil {
			return nil, ErrUsernameTaken
		}
		if _, err := s.userRepo.FindByEmail(email); err == nil {
			return nil, ErrEmailTaken
		}

		user = &models.User{
			Username: username,
			Email:    email,
			Role:     models.RoleUser,
		}
		if err := s.userRepo.Create(user); err != nil {
			if isUniqueViolation(err) {
				return nil, resolveUserConflict(s.userRepo, 0, username)
			}
			return nil, err
		}
	}

	code := uuid.New().String()
	user.ConfirmationCode = code
	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}

	// Synchronous dispatch; a mail failure fails the whole request.
	if err := s.mailer.SendConfirmationCode(email, code); err != nil {
		return nil, errors.Join(ErrMailDelivery, err)
	}

	return user, nil
}

// ObtainToken exchanges a confirmation code for a signed bearer token.
// A mismatch changes no state: the stored code stays valid until the next
// signup call replaces it.
func (s *authService) ObtainToken(username, confirmationCode string) (string, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if user.ConfirmationCode == "" ||
		subtle.ConstantTimeCompare([]byte(confirmationCode), []byte(user.ConfirmationCode)) != 1 {
		return "", ErrInvalidConfirmationCode
	}

	return s.generateAccessToken(user)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
