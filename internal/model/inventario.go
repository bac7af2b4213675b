package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Inventario is a supply item (fertilizer, tools, fuel...). Precio is
// the *current* unit price; the settlement engine reads it live when it
// prices consumption lines.
type Inventario struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UsuarioID   uuid.UUID       `gorm:"type:uuid;index:idx_inventario_scope;not null" json:"usuarioId"`
	Finca       string          `gorm:"type:varchar(100);index:idx_inventario_scope;not null" json:"finca"`
	Nombre      string          `gorm:"type:varchar(100);not null" json:"nombre"`
	Categoria   string          `gorm:"type:varchar(50);default:'general'" json:"categoria"`
	Stock       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"stock"`
	Unidad      string          `gorm:"type:varchar(20);default:'unidad'" json:"unidad"`
	Precio      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"precio"`
	StockMinimo decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"stockMinimo"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (Inventario) TableName() string { return "inventario" }
