package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entrada is an income entry (sale of produce, etc.). Once a
// liquidación consumes it, Liquidada flips to true and the row is
// frozen: no updates, no deletes.
type Entrada struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UsuarioID     uuid.UUID       `gorm:"type:uuid;index:idx_entradas_scope;not null" json:"usuarioId"`
	Finca         string          `gorm:"type:varchar(100);index:idx_entradas_scope;not null" json:"finca"`
	Descripcion   string          `gorm:"type:varchar(200);not null" json:"descripcion"`
	Valor         decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"valor"`
	FechaEntrada  time.Time       `gorm:"index;not null" json:"fechaEntrada"`
	Liquidada     bool            `gorm:"index;default:false" json:"liquidada"`
	LiquidacionID *uuid.UUID      `gorm:"type:uuid;index" json:"liquidacionId,omitempty"`
	// FechaLiquidacion records when the settlement consumed the row.
	FechaLiquidacion *time.Time `json:"fechaLiquidacion,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (Entrada) TableName() string { return "entradas" }
