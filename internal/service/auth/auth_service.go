package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/fisker/formflow-backend/internal/model"
	"github.com/fisker/formflow-backend/internal/repository"
	"github.com/fisker/formflow-backend/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// JWT Claims
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	repo      *repository.UserRepository
	jwtSecret []byte        // JWT签名密钥
	tokenTTL  time.Duration // Token有效期
}

// NewAuthService 创建认证服务
func NewAuthService(repo *repository.UserRepository, jwtSecret string, tokenExpireHours int) *AuthService {
	jwtKey := []byte(jwtSecret)
	if len(jwtKey) == 0 {
		// 未配置时使用默认值（仅用于开发环境）
		jwtKey = []byte("formflow-dev-secret-do-not-use-in-production")
	}
	if tokenExpireHours <= 0 {
		tokenExpireHours = 24
	}

	return &AuthService{
		repo:      repo,
		jwtSecret: jwtKey,
		tokenTTL:  time.Duration(tokenExpireHours) * time.Hour,
	}
}

// Register 注册新用户
func (s *AuthService) Register(req *model.RegisterRequest) (*model.User, error) {
	if existing, _ := s.repo.FindUserByUsername(req.Username); existing != nil {
		return nil, errors.New("用户名已存在")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	user := &model.User{
		ID:       uuid.New().String(),
		Username: req.Username,
		Password: string(hashed),
		Email:    req.Email,
		FullName: req.FullName,
		Role:     "user",
		Status:   "active",
	}

	if err := s.repo.CreateUser(user); err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	return user, nil
}

// Login 用户登录
func (s *AuthService) Login(req *model.LoginRequest, loginIP string) (*model.LoginResponse, error) {
	user, err := s.authenticateWithPassword(req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	if user.Status != "active" {
		return nil, errors.New("账号已被禁用，请联系管理员")
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("生成Token失败: %w", err)
	}

	// 更新最后登录时间，失败不影响登录
	now := time.Now()
	if err := s.repo.UpdateUserLastLogin(user.ID, now, loginIP); err != nil {
		logger.Warnf("更新最后登录时间失败: %v", err)
	}

	return &model.LoginResponse{
		Token: token,
		User:  *user,
	}, nil
}

// authenticateWithPassword 数据库密码认证
func (s *AuthService) authenticateWithPassword(username, password string) (*model.User, error) {
	user, err := s.repo.FindUserByUsername(username)
	if err != nil || user == nil {
		return nil, errors.New("用户名或密码错误")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errors.New("用户名或密码错误")
	}

	return user, nil
}

// GenerateToken 生成 JWT Token
func (s *AuthService) GenerateToken(user *model.User) (string, error) {
	expirationTime := time.Now().Add(s.tokenTTL)

	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "formflow",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken 验证 JWT Token
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("无效的Token")
}

// GetUserByID 按 ID 获取用户
func (s *AuthService) GetUserByID(userID string) (*model.User, error) {
	return s.repo.FindUserByID(userID)
}

// GetAllUsers 获取所有用户
func (s *AuthService) GetAllUsers() ([]model.User, error) {
	return s.repo.FindAllUsers()
}
