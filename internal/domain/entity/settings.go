package entity

// Modos de venta por defecto.
const (
	SaleModeFEFO   = "FEFO"
	SaleModeManual = "MANUAL"
)

// Settings configuración global mutable del almacén (una sola fila JSON en DB).
// Se pasa explícitamente a quien la necesite; nadie lee estado ambiente.
type Settings struct {
	ExpiryAlertDays            int    `json:"expiry_alert_days"`
	ExpiryIncludeZeroStock     bool   `json:"expiry_include_zero_stock"`
	LowStockAlertEnabled       bool   `json:"low_stock_alert_enabled"`
	LowStockThresholdUnits     int    `json:"low_stock_threshold_units"`
	SaleDefaultMode            string `json:"sale_default_mode"` // FEFO | MANUAL
	ConfirmSaleBeforeCommit    bool   `json:"confirm_sale_before_commit"`
	IncludeExpiredInAllocation bool   `json:"include_expired_in_allocation"`
}

// DefaultSettings valores por defecto (también fallback si la fila no existe).
func DefaultSettings() Settings {
	return Settings{
		ExpiryAlertDays:            30,
		ExpiryIncludeZeroStock:     false,
		LowStockAlertEnabled:       true,
		LowStockThresholdUnits:     10,
		SaleDefaultMode:            SaleModeFEFO,
		ConfirmSaleBeforeCommit:    true,
		IncludeExpiredInAllocation: false,
	}
}

// Normalize acota los valores a rangos seguros y corrige el modo de venta.
func (s *Settings) Normalize() {
	if s.ExpiryAlertDays < 1 {
		s.ExpiryAlertDays = 1
	}
	if s.ExpiryAlertDays > 365 {
		s.ExpiryAlertDays = 365
	}
	if s.LowStockThresholdUnits < 0 {
		s.LowStockThresholdUnits = 0
	}
	if s.SaleDefaultMode != SaleModeFEFO && s.SaleDefaultMode != SaleModeManual {
		s.SaleDefaultMode = SaleModeFEFO
	}
}
