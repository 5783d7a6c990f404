package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"ai-studio-go/internal/model"
	"ai-studio-go/internal/repository"
	"ai-studio-go/pkg/hash"
	"ai-studio-go/pkg/token"
)

// MinPasswordLen 是注册密码的最小长度。
const MinPasswordLen = 6

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// UserService 接口定义了所有与用户相关的业务操作。
type UserService interface {
	Register(email, password, name string) (accessToken string, user *model.User, err error)
	Login(email, password string) (accessToken string, user *model.User, err error)
	Logout(ctx context.Context, tokenString string) error
	GetProfile(userID uint) (*model.User, error)
}

// userService 是 UserService 接口的实现。
type userService struct {
	userRepo   repository.UserRepository
	blacklist  repository.TokenBlacklist
	jwtManager *token.JWTManager
}

// NewUserService 创建一个新的 UserService 实例。
func NewUserService(userRepo repository.UserRepository, blacklist repository.TokenBlacklist, jwtManager *token.JWTManager) UserService {
	return &userService{
		userRepo:   userRepo,
		blacklist:  blacklist,
		jwtManager: jwtManager,
	}
}

// Register 处理用户注册的业务逻辑。
// 邮箱统一转为小写后判重，注册成功即签发会话令牌。
func (s *userService) Register(email, password, name string) (string, *model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	// 1. 参数校验
	if email == "" || password == "" || name == "" {
		return "", nil, fmt.Errorf("%w: 邮箱、密码和昵称不能为空", ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return "", nil, fmt.Errorf("%w: 邮箱格式不正确", ErrValidation)
	}
	if len(password) < MinPasswordLen {
		return "", nil, fmt.Errorf("%w: 密码长度不能少于 %d 个字符", ErrValidation, MinPasswordLen)
	}

	// 2. 检查邮箱是否已被注册
	_, err := s.userRepo.FindByEmail(email)
	if err == nil {
		return "", nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, err
	}

	// 3. 对密码进行哈希处理
	hashedPassword, err := hash.HashPassword(password)
	if err != nil {
		return "", nil, err
	}

	// 4. 创建新用户
	newUser := &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         name,
	}
	if err := s.userRepo.Create(newUser); err != nil {
		return "", nil, err
	}

	// 5. 签发会话令牌
	accessToken, err := s.jwtManager.GenerateToken(newUser.ID, newUser.Email)
	if err != nil {
		return "", nil, err
	}

	return accessToken, newUser, nil
}

// Login 处理用户登录的业务逻辑。
func (s *userService) Login(email, password string) (string, *model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	// 1. 查找用户
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	// 2. 验证密码
	if !hash.CheckPasswordHash(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	// 3. 签发会话令牌
	accessToken, err := s.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", nil, err
	}

	return accessToken, user, nil
}

// Logout 处理用户登出逻辑，将 token 加入 Redis 黑名单。
// token 的剩余有效期将作为黑名单条目的过期时间。
func (s *userService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.jwtManager.VerifyToken(tokenString)
	if err != nil {
		// 无效或已过期的令牌无需拉黑
		return nil
	}
	expiration := time.Until(claims.ExpiresAt.Time)
	return s.blacklist.Add(ctx, tokenString, expiration)
}

// GetProfile 根据用户 ID 获取用户详细信息（含用量计数器）。
func (s *userService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
