package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement types.
const (
	MovimientoIngreso = "ingreso"
	MovimientoRetiro  = "retiro"
)

// MovimientoCaja is a manual cash movement. Rows are append-only; a
// mistake is corrected with an inverse movement, never an update.
// CajaAntes/CajaDespues record the reconstructed balance around the
// movement for audit.
type MovimientoCaja struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UsuarioID   uuid.UUID       `gorm:"type:uuid;index:idx_movimientos_scope;not null" json:"usuarioId"`
	Finca       string          `gorm:"type:varchar(100);index:idx_movimientos_scope;not null" json:"finca"`
	Tipo        string          `gorm:"type:varchar(10);not null" json:"tipo"`
	Valor       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"valor"`
	Descripcion string          `gorm:"type:varchar(200);not null" json:"descripcion"`
	Fecha       time.Time       `gorm:"index;not null" json:"fecha"`
	CajaAntes   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"cajaAntes"`
	CajaDespues decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"cajaDespues"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (MovimientoCaja) TableName() string { return "movimientos_caja" }
