package dto

type LoginRequest struct {
	Usuario  string `json:"usuario" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=4"`
}

type LoginResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	Usuario UsuarioInfo `json:"usuario"`
}

type UsuarioInfo struct {
	ID          string   `json:"id"`
	Usuario     string   `json:"usuario"`
	Nombre      string   `json:"nombre"`
	FincaActiva string   `json:"fincaActiva"`
	Fincas      []string `json:"fincas"`
}

type CambiarFincaRequest struct {
	Finca string `json:"finca" validate:"required,min=1,max=100"`
}
