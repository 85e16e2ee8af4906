package dto

// ErrorResponse cuerpo de error HTTP. Code es estable y apto para lógica de
// cliente; Message es solo informativo.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Detalle de reintento en conflictos de stock (409): qué se pidió, qué hay
	// y qué lotes siguen siendo candidatos.
	Requested     int64             `json:"requested,omitempty"`
	Available     int64             `json:"available,omitempty"`
	LotID         string            `json:"lot_id,omitempty"`
	SuggestedLots []SuggestedLotDTO `json:"suggested_lots,omitempty"`
}

// SuggestedLotDTO lote candidato que el cliente puede usar para rearmar el plan.
type SuggestedLotDTO struct {
	LotID          string  `json:"lot_id"`
	LotNumber      string  `json:"lot_number"`
	ExpirationDate *string `json:"expiration_date"`
	Stock          int64   `json:"stock"`
}

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}
