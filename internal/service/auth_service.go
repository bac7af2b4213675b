package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fincalibro/internal/apierror"
	"fincalibro/internal/dto"
	"fincalibro/internal/model"
	"fincalibro/internal/repository"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Me(ctx context.Context, usuarioID uuid.UUID) (*dto.UsuarioInfo, error)
	CambiarFinca(ctx context.Context, usuarioID uuid.UUID, finca string) (*dto.UsuarioInfo, error)
}

type authService struct {
	usuarios        repository.UsuarioRepository
	jwtSecret       string
	expirationHours int
}

func NewAuthService(usuarios repository.UsuarioRepository, jwtSecret string, expirationHours int) AuthService {
	if expirationHours <= 0 {
		expirationHours = 8
	}
	return &authService{usuarios: usuarios, jwtSecret: jwtSecret, expirationHours: expirationHours}
}

func usuarioInfo(u *model.Usuario) *dto.UsuarioInfo {
	fincas := make([]string, 0, len(u.Fincas))
	for _, f := range u.Fincas {
		fincas = append(fincas, f.Nombre)
	}
	return &dto.UsuarioInfo{
		ID:          u.ID.String(),
		Usuario:     u.Usuario,
		Nombre:      u.Nombre,
		FincaActiva: u.FincaActiva,
		Fincas:      fincas,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	u, err := s.usuarios.FindByUsuario(ctx, req.Usuario)
	if err != nil {
		return nil, apierror.ErrInvalidCredentials
	}
	if !u.Activo {
		return nil, apierror.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, apierror.ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": u.ID.String(),
		"usuario": u.Usuario,
		"iat":     now.Unix(),
		"exp":     now.Add(time.Duration(s.expirationHours) * time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{Success: true, Token: token, Usuario: *usuarioInfo(u)}, nil
}

func (s *authService) Me(ctx context.Context, usuarioID uuid.UUID) (*dto.UsuarioInfo, error) {
	u, err := s.usuarios.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	return usuarioInfo(u), nil
}

func (s *authService) CambiarFinca(ctx context.Context, usuarioID uuid.UUID, finca string) (*dto.UsuarioInfo, error) {
	u, err := s.usuarios.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, err
	}

	owned := false
	for _, f := range u.Fincas {
		if f.Nombre == finca {
			owned = true
			break
		}
	}
	if !owned {
		return nil, apierror.ErrForbidden
	}

	if err := s.usuarios.UpdateFincaActiva(ctx, usuarioID, finca); err != nil {
		return nil, err
	}
	u.FincaActiva = finca
	return usuarioInfo(u), nil
}
