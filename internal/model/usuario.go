package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario is an operator account. Every domain row is scoped by
// (UsuarioID, Finca); the active finca is what the middleware injects
// into each request.
type Usuario struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Usuario      string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"usuario"`
	Nombre       string         `gorm:"type:varchar(100);not null" json:"nombre"`
	PasswordHash string         `gorm:"type:varchar(100);not null" json:"-"`
	FincaActiva  string         `gorm:"type:varchar(100)" json:"fincaActiva"`
	Fincas       []UsuarioFinca `gorm:"foreignKey:UsuarioID;constraint:OnDelete:CASCADE" json:"fincas"`
	Activo       bool           `gorm:"default:true" json:"activo"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func (Usuario) TableName() string { return "usuarios" }

// UsuarioFinca is one farm owned by a user.
type UsuarioFinca struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UsuarioID uuid.UUID `gorm:"type:uuid;index;not null" json:"usuarioId"`
	Nombre    string    `gorm:"type:varchar(100);not null" json:"nombre"`
	CreatedAt time.Time `json:"createdAt"`
}

func (UsuarioFinca) TableName() string { return "usuario_fincas" }
